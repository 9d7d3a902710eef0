package outbound

// TaskDispatcher submits work to the shared worker pool. The pipeline's pool
// holds a single worker so whole runs are serialized: overlapping runs would
// compete for the same external-tool resources.
type TaskDispatcher interface {
	Submit(task func()) error
}
