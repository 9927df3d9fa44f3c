package domain

// DefaultFeatureDimension is the number of features per context in the
// Yahoo! Front Page click log (R6 dataset).
const DefaultFeatureDimension = 6

// IndexedValue is one `index:value` pair of a sparse feature list.
// Index is 1-based.
type IndexedValue struct {
	Index uint32
	Value float64
}

// DenseVector is a fully materialized, fixed-length feature vector.
type DenseVector []float64

// ArticleContext is the feature block of one candidate article on a visit line.
// ArticleID is kept as the raw digit text from the log.
type ArticleContext struct {
	ArticleID string
	Features  DenseVector
}

// Visit is one parsed click-log line.
type Visit struct {
	Day              string                 `json:"day"`
	Timestamp        uint32                 `json:"timestamp"`
	DisplayedArticle string                 `json:"displayed_article"`
	UserClicked      uint8                  `json:"user_clicked"`
	User             DenseVector            `json:"user"`
	Articles         map[string]DenseVector `json:"articles"`
}

// Clicked reports whether the user clicked the displayed article.
// Any non-zero flag counts as a click.
func (v Visit) Clicked() bool {
	return v.UserClicked != 0
}
