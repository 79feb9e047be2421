package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/redis/go-redis/v9"

	errx "github.com/supportflow-core-poc/server/internal/core/error"
	"github.com/supportflow-core-poc/server/internal/support/model"
	logx "github.com/supportflow-core-poc/server/pkg/logger"
)

const docsKey = "faq:docs"

// Document is one FAQ entry as stored in the knowledge base, before any
// query-specific score is attached.
type Document struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	Source       string   `json:"source"`
	HelpfulCount int      `json:"helpful_count"`
}

// RedisKnowledgeBase serves FAQ retrieval from a Redis hash of documents.
// Scoring is lexical: the distance for a document is one minus the fraction
// of query tokens found in its title, tags and content, so results come back
// ordered by ascending distance like a vector store would return them.
type RedisKnowledgeBase struct {
	rdb redis.Cmdable
}

func NewRedisKnowledgeBase(rdb redis.Cmdable) *RedisKnowledgeBase {
	return &RedisKnowledgeBase{rdb: rdb}
}

// Seed stores the given documents, replacing entries with the same id.
func (r *RedisKnowledgeBase) Seed(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	fields := make(map[string]any, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("seed: document without id (title %q)", doc.Title)
		}
		b, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("seed: marshal document %s: %w", doc.ID, err)
		}
		fields[doc.ID] = b
	}
	if err := r.rdb.HSet(ctx, docsKey, fields).Err(); err != nil {
		logx.Error().Err(err).Str("key", docsKey).Msg("failed to seed faq documents")
		return errx.WrapRedis(err)
	}
	return nil
}

// Search returns up to k documents ordered by ascending distance. An empty
// knowledge base yields an empty result, not an error.
func (r *RedisKnowledgeBase) Search(ctx context.Context, query string, k int) ([]model.RetrievedDocument, error) {
	if k <= 0 {
		k = 3
	}

	rows, err := r.rdb.HGetAll(ctx, docsKey).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", docsKey).Msg("failed to load faq documents")
		return nil, errx.Retrieval(err, "faq search unavailable")
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return []model.RetrievedDocument{}, nil
	}

	results := make([]model.RetrievedDocument, 0, len(rows))
	for id, raw := range rows {
		var doc Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			logx.Warn().Err(err).Str("doc_id", id).Msg("skipping malformed faq document")
			continue
		}
		score := distance(tokens, &doc)
		results = append(results, model.RetrievedDocument{
			ID:           doc.ID,
			Category:     doc.Category,
			Title:        doc.Title,
			Content:      doc.Content,
			Tags:         doc.Tags,
			Score:        score,
			Source:       doc.Source,
			HelpfulCount: doc.HelpfulCount,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score < results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// tokenize splits text on anything that is not a letter or digit and
// lowercases the tokens. Works for Korean because Hangul syllables are
// letters; single-rune tokens are kept since short particles still match.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// distance computes 1 - matched/total query tokens against the document's
// searchable text. A token matches when it occurs as a substring, which
// tolerates Korean particle suffixes on the query side.
func distance(tokens []string, doc *Document) float64 {
	haystack := strings.ToLower(doc.Title + " " + strings.Join(doc.Tags, " ") + " " + doc.Content)
	matched := 0
	for _, tok := range tokens {
		if strings.Contains(haystack, tok) {
			matched++
		}
	}
	return 1.0 - float64(matched)/float64(len(tokens))
}

var _ model.KnowledgeBase = (*RedisKnowledgeBase)(nil)
