package repository_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blogapi "github.com/healthsoc/blogapi"
	"github.com/healthsoc/blogapi/repository"
)

func TestPrepareArticle(t *testing.T) {
	t.Run("stamps a fresh id", func(t *testing.T) {
		record := repository.PrepareArticle(&blogapi.Article{Title: "hello"})
		assert.NotEqual(t, uuid.Nil, record.ID)
	})

	t.Run("keeps an existing id", func(t *testing.T) {
		id := uuid.New()
		record := repository.PrepareArticle(&blogapi.Article{ID: id})
		assert.Equal(t, id, record.ID)
	})

	t.Run("publishing stamps the publish time once", func(t *testing.T) {
		record := repository.PrepareArticle(&blogapi.Article{Published: true})
		require.NotNil(t, record.PublishedAt)

		first := record.PublishedAt
		again := repository.PrepareArticle(record)
		assert.Equal(t, first, again.PublishedAt)
	})

	t.Run("drafts carry no publish time", func(t *testing.T) {
		record := repository.PrepareArticle(&blogapi.Article{})
		assert.Nil(t, record.PublishedAt)
	})
}
