package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rudro-dev/loopgram/backend/internal/middleware"
	"github.com/rudro-dev/loopgram/backend/internal/models"
	"github.com/rudro-dev/loopgram/backend/internal/repositories"
)

// requireUser returns the authenticated user or a 401. The middleware
// normally guarantees presence; this guards routes wired outside it.
func requireUser(c echo.Context) (*models.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return user, nil
}

// summariesByID loads the read-view shape for a set of user IDs.
func summariesByID(users repositories.UserRepository, ids []uint) (map[uint]models.UserSummary, error) {
	if len(ids) == 0 {
		return map[uint]models.UserSummary{}, nil
	}
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	rows, err := users.GetUsersByIDs(unique)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]models.UserSummary, len(rows))
	for i := range rows {
		out[rows[i].ID] = rows[i].Summary()
	}
	return out, nil
}

// hydrateContents fills author summaries on content items and their
// comments in one user lookup.
func hydrateContents(users repositories.UserRepository, contents []models.Content) error {
	var ids []uint
	for i := range contents {
		ids = append(ids, contents[i].AuthorID)
		for j := range contents[i].Comments {
			ids = append(ids, contents[i].Comments[j].AuthorID)
		}
	}

	summaries, err := summariesByID(users, ids)
	if err != nil {
		return err
	}
	for i := range contents {
		if s, ok := summaries[contents[i].AuthorID]; ok {
			author := s
			contents[i].Author = &author
		}
		for j := range contents[i].Comments {
			if s, ok := summaries[contents[i].Comments[j].AuthorID]; ok {
				author := s
				contents[i].Comments[j].Author = &author
			}
		}
	}
	return nil
}

// hydrateContent is the single-item form of hydrateContents.
func hydrateContent(users repositories.UserRepository, content *models.Content) error {
	if content == nil {
		return nil
	}
	batch := []models.Content{*content}
	if err := hydrateContents(users, batch); err != nil {
		return err
	}
	*content = batch[0]
	return nil
}
