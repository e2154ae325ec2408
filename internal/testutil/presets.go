package testutil

// WithTrafficData adds the standard traffic dataset: two models, three
// stream triggers A, B, C and a per-url cube with one trigger.
func (b *Builder) WithTrafficData() *Builder {
	return b.
		WithModel("morphline", ModelType("Morphlines"),
			Output("url", "string"), Output("status", "integer")).
		WithModel("datetime", ModelType("DateTime"),
			Output("minute", "timestamp")).
		WithStreamTrigger("A", SQL("select a")).
		WithStreamTrigger("B", SQL("select b")).
		WithStreamTrigger("C", SQL("select c")).
		WithCube("per-url",
			Dimension("url", "url"),
			Operator("hits", "Count"),
			CubeTrigger("hot", SQL("select url"), Outputs("mongo")))
}
