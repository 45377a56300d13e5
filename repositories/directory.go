//go:generate go run go.uber.org/mock/mockgen -source=directory.go -destination=../mocks/mock_profile_index.go -package=mocks
package repositories

import (
	"context"

	"messenger-lab/domain"

	"github.com/blugelabs/bluge"
)

type IProfileIndex interface {
	Index(profile domain.Profile) error
	Search(ctx context.Context, query string, limit int) ([]domain.Username, error)
}

// ProfileIndex makes the users directory searchable. Profiles are indexed by
// username, name, and job; the username doubles as the document identity, so
// re-indexing a profile replaces its previous document.
type ProfileIndex struct {
	writer *bluge.Writer
}

func NewProfileIndex(writer *bluge.Writer) *ProfileIndex {
	return &ProfileIndex{writer: writer}
}

func (p *ProfileIndex) Index(profile domain.Profile) error {
	doc := bluge.NewDocument(string(profile.Username)).
		AddField(bluge.NewTextField("username", string(profile.Username)).StoreValue()).
		AddField(bluge.NewTextField("first_name", profile.FirstName)).
		AddField(bluge.NewTextField("last_name", profile.LastName)).
		AddField(bluge.NewTextField("job", profile.Job))
	return p.writer.Update(doc.ID(), doc)
}

// Search runs a match query over every indexed field and returns usernames in
// score order. An empty result is not an error; the directory page just
// renders nothing.
func (p *ProfileIndex) Search(ctx context.Context, query string, limit int) ([]domain.Username, error) {
	reader, err := p.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	boolean := bluge.NewBooleanQuery().
		AddShould(bluge.NewMatchQuery(query).SetField("username")).
		AddShould(bluge.NewMatchQuery(query).SetField("first_name")).
		AddShould(bluge.NewMatchQuery(query).SetField("last_name")).
		AddShould(bluge.NewMatchQuery(query).SetField("job"))

	request := bluge.NewTopNSearch(limit, boolean)
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var usernames []domain.Username
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				usernames = append(usernames, domain.Username(value))
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return usernames, nil
}
