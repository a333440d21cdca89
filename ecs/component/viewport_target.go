package component

// ViewportTarget marks the entity the camera follows. Only one should
// exist at a time.
type ViewportTarget struct{}

var ViewportTargetComponent = NewComponent[ViewportTarget]()
