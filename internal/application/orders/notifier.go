package orders

import "sync"

// ChangeObserver is called after the ledger content changes. storeID names
// the affected store, or is empty when the change spans stores.
type ChangeObserver func(storeID string)

// ChangeNotifier fans ledger change notifications out to registered
// observers. Consumers poll the ledger on notification instead of holding
// live database listeners.
type ChangeNotifier struct {
	mu        sync.RWMutex
	nextID    int
	observers map[int]ChangeObserver
}

// NewChangeNotifier creates an empty notifier.
func NewChangeNotifier() *ChangeNotifier {
	return &ChangeNotifier{observers: make(map[int]ChangeObserver)}
}

// Subscribe registers an observer and returns its unsubscribe function.
func (n *ChangeNotifier) Subscribe(observer ChangeObserver) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.observers[id] = observer
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.observers, id)
	}
}

// Notify invokes every registered observer synchronously.
func (n *ChangeNotifier) Notify(storeID string) {
	n.mu.RLock()
	observers := make([]ChangeObserver, 0, len(n.observers))
	for _, o := range n.observers {
		observers = append(observers, o)
	}
	n.mu.RUnlock()

	for _, o := range observers {
		o(storeID)
	}
}
