package clicklog

import "github.com/log0ymxm/parse-click-data/internal/domain"

// Assemble builds the Visit record. Articles are keyed by id; when an id
// repeats, the later context replaces the earlier one. The displayed article
// does not have to be among the candidates.
func Assemble(
	day string,
	timestamp uint32,
	displayedArticle string,
	userClicked uint8,
	user domain.DenseVector,
	articles []domain.ArticleContext,
) domain.Visit {
	byID := make(map[string]domain.DenseVector, len(articles))
	for _, a := range articles {
		byID[a.ArticleID] = a.Features
	}

	return domain.Visit{
		Day:              day,
		Timestamp:        timestamp,
		DisplayedArticle: displayedArticle,
		UserClicked:      userClicked,
		User:             user,
		Articles:         byID,
	}
}
