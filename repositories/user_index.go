package repositories

import (
	"chat-hub/domain"
	"context"
	"fmt"
	"strings"

	"github.com/blugelabs/bluge"
)

const usernameField = "username"

// UserIndex is the search side of the user directory.
// Usernames are indexed lowercased as keywords so that a wildcard query gives
// case-insensitive substring matching.
type UserIndex struct {
	writer *bluge.Writer
}

func NewUserIndex(writer *bluge.Writer) *UserIndex {
	return &UserIndex{writer: writer}
}

func (i *UserIndex) Index(user domain.User) error {
	doc := bluge.NewDocument(user.ID).
		AddField(bluge.NewKeywordField(usernameField, strings.ToLower(user.Username)).StoreValue().Sortable())
	return i.writer.Update(doc.ID(), doc)
}

// Search returns the ids of users whose username contains term.
func (i *UserIndex) Search(ctx context.Context, term string, limit int) ([]string, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("open index reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	pattern := "*" + sanitizeWildcard(strings.ToLower(term)) + "*"
	query := bluge.NewWildcardQuery(pattern).SetField(usernameField)
	request := bluge.NewTopNSearch(limit, query).SortBy([]string{usernameField})

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}

	var ids []string
	match, err := iterator.Next()
	for err == nil && match != nil {
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, string(value))
			}
			return true
		})
		if err != nil {
			break
		}
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return ids, nil
}

// sanitizeWildcard removes the wildcard operators a user could type in a search box.
func sanitizeWildcard(term string) string {
	return strings.NewReplacer("*", "", "?", "").Replace(term)
}
