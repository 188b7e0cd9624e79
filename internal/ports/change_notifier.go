package ports

// Port: fan-out of catalog change events to live subscribers.
// Calls are made only after the originating transaction has committed and
// are fire-and-forget: delivery failures never reach the write path.
type ChangeNotifier interface {
	RouteCreated()
	RouteUpdated()
	RouteDeleted()
}
