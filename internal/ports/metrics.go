package ports

// Metrics records publishing activity
type Metrics interface {
	PostsSynced(n int)
	ArticlePublished(mode string)
	PublishFailed(kind string)
	ArticlesDemoted(n int)
}

// NopMetrics discards everything
type NopMetrics struct{}

func (NopMetrics) PostsSynced(int)         {}
func (NopMetrics) ArticlePublished(string) {}
func (NopMetrics) PublishFailed(string)    {}
func (NopMetrics) ArticlesDemoted(int)     {}
