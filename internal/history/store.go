package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/gitaguide/internal/db"
)

// timeLayout is fixed width so asked_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// Store records and lists questions.
type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts e. An empty ID gets a UUID and a zero AskedAt gets the
// current time; the stored entry is returned.
func (s *Store) Record(ctx context.Context, e Entry) (*Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.AskedAt.IsZero() {
		e.AskedAt = time.Now()
	}
	e.AskedAt = e.AskedAt.UTC().Truncate(time.Microsecond)

	themes, err := json.Marshal(nonNil(e.Themes))
	if err != nil {
		return nil, fmt.Errorf("marshalling themes: %w", err)
	}
	verses, err := json.Marshal(nonNil(e.VerseIDs))
	if err != nil {
		return nil, fmt.Errorf("marshalling verse ids: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO questions (
			id, asked_at, question, kind, themes, verse_ids, response,
			is_error, disclaimer, provider, model, input_tokens, output_tokens, cost_usd
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.AskedAt.Format(timeLayout),
		e.Question,
		e.Kind,
		string(themes),
		string(verses),
		e.Response,
		e.Error,
		e.Disclaimer,
		e.Provider,
		e.Model,
		e.InputTokens,
		e.OutputTokens,
		e.CostUSD,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting question: %w", err)
	}
	return &e, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

const selectColumns = `SELECT id, asked_at, question, kind, themes, verse_ids, response,
	is_error, disclaimer, provider, model, input_tokens, output_tokens, cost_usd FROM questions`

// Get returns the entry with the given id, or sql.ErrNoRows.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	return scanEntry(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
}

// Filter controls which entries List returns.
type Filter struct {
	Kind   string
	Since  *time.Time
	Search string
	Limit  int
	Offset int
}

// List returns matching entries, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)
	if f.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, f.Kind)
	}
	if f.Since != nil {
		clauses = append(clauses, "asked_at >= ?")
		args = append(args, f.Since.UTC().Format(timeLayout))
	}
	if f.Search != "" {
		clauses = append(clauses, "question LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}

	query := selectColumns
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY asked_at DESC, rowid DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
		if f.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", f.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying questions: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Summarize aggregates every recorded question.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(is_error), 0), COALESCE(SUM(disclaimer), 0), COALESCE(SUM(cost_usd), 0)
		FROM questions`).Scan(&sum.Questions, &sum.Errors, &sum.Disclaimers, &sum.TotalCostUSD)
	if err != nil {
		return Summary{}, fmt.Errorf("summarizing questions: %w", err)
	}
	return sum, nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (*Entry, error) {
	var (
		e                 Entry
		askedAt           string
		themes, verseIDs  string
		isErr, disclaimer int
	)
	err := sc.Scan(
		&e.ID, &askedAt, &e.Question, &e.Kind, &themes, &verseIDs, &e.Response,
		&isErr, &disclaimer, &e.Provider, &e.Model, &e.InputTokens, &e.OutputTokens, &e.CostUSD,
	)
	if err != nil {
		return nil, err
	}

	e.Error = isErr != 0
	e.Disclaimer = disclaimer != 0
	if t, err := time.Parse(timeLayout, askedAt); err == nil {
		e.AskedAt = t
	}
	if err := json.Unmarshal([]byte(themes), &e.Themes); err != nil {
		e.Themes = nil
	}
	if err := json.Unmarshal([]byte(verseIDs), &e.VerseIDs); err != nil {
		e.VerseIDs = nil
	}
	return &e, nil
}

// IsNotFound reports whether err means the entry does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
