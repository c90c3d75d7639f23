// Package storage is the shared persistent cache behind every pipeline:
// normalized articles, per-language translations, enhanced content and
// synthesized audio. All of it lives in PostgreSQL and is shared across user
// sessions, which is what makes the AI cost amortize.
//
// A nil *Store is valid and behaves as an always-miss cache: every read is a
// miss and every write a no-op. That is the degraded mode when no backend is
// configured.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"github.com/deusflow/newspulse/internal/feed"
)

// Store wraps the shared database.
type Store struct {
	db *sql.DB
}

// EnhancedContent is the write-once AI expansion of one article.
type EnhancedContent struct {
	FullArticle           string
	ShortSummary          string
	TransliteratedSummary string
}

// Open connects to PostgreSQL and makes sure the schema exists.
func Open(connString string) (*Store, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Println("✅ shared cache database connected")
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id VARCHAR(64) PRIMARY KEY,
		category_id VARCHAR(50) NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		content TEXT,
		link TEXT,
		source VARCHAR(200),
		image_url TEXT,
		pub_date TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at);

	CREATE TABLE IF NOT EXISTS translations (
		article_id VARCHAR(64) NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
		language_code VARCHAR(20) NOT NULL,
		translated_text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (article_id, language_code)
	);

	CREATE TABLE IF NOT EXISTS enhanced_content (
		article_id VARCHAR(64) PRIMARY KEY REFERENCES articles(id) ON DELETE CASCADE,
		full_article TEXT,
		short_summary TEXT,
		transliterated_summary TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	-- Audio rows are keyed by content hash and may be shared by articles in
	-- different categories and languages, so they never cascade from articles.
	CREATE TABLE IF NOT EXISTS audio_cache (
		text_hash VARCHAR(32) NOT NULL,
		voice_name VARCHAR(50) NOT NULL,
		audio_data TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (text_hash, voice_name)
	);

	CREATE TABLE IF NOT EXISTS feed_sources (
		id SERIAL PRIMARY KEY,
		category_id VARCHAR(50) NOT NULL,
		url TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		position INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_feed_sources_category ON feed_sources(category_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Articles returns the cached set for a category, newest row first. A nil
// store or a query failure is a plain miss.
func (s *Store) Articles(ctx context.Context, category string) []feed.Article {
	if s == nil || s.db == nil {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_id, title, description, content, link, source, image_url, pub_date
		FROM articles
		WHERE category_id = $1
		ORDER BY created_at DESC
	`, category)
	if err != nil {
		log.Printf("⚠️ article cache read failed for %s: %v", category, err)
		return nil
	}
	defer rows.Close()

	var out []feed.Article
	for rows.Next() {
		var a feed.Article
		var description, content, link, source, imageURL sql.NullString
		if err := rows.Scan(&a.ID, &a.Category, &a.Title, &description, &content, &link, &source, &imageURL, &a.PubDate); err != nil {
			log.Printf("⚠️ article row scan failed: %v", err)
			continue
		}
		a.Description = description.String
		a.Content = content.String
		a.Link = link.String
		a.Source = source.String
		a.ImageURL = imageURL.String
		out = append(out, a)
	}
	return out
}

// SaveArticles upserts by id. Rows not in the list are left alone, so
// translations and audio tied to still-relevant articles survive a refresh.
func (s *Store) SaveArticles(ctx context.Context, category string, articles []feed.Article) {
	if s == nil || s.db == nil {
		return
	}

	query := `
		INSERT INTO articles (id, category_id, title, description, content, link, source, image_url, pub_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			content = EXCLUDED.content,
			source = EXCLUDED.source,
			image_url = EXCLUDED.image_url,
			pub_date = EXCLUDED.pub_date,
			created_at = NOW()
	`
	for _, a := range articles {
		if _, err := s.db.ExecContext(ctx, query, a.ID, category, a.Title, a.Description, a.Content, a.Link, a.Source, a.ImageURL, a.PubDate); err != nil {
			log.Printf("⚠️ article upsert failed for %s: %v", a.ID, err)
		}
	}
}

// PurgeOlderThan deletes article rows created before now minus ageHours.
// Translations and enhanced content cascade with them; audio rows stay
// because their keys are content-derived and possibly shared.
func (s *Store) PurgeOlderThan(ctx context.Context, ageHours int) {
	if s == nil || s.db == nil {
		return
	}

	cutoff := time.Now().Add(-time.Duration(ageHours) * time.Hour)
	result, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE created_at < $1`, cutoff)
	if err != nil {
		log.Printf("⚠️ article purge failed: %v", err)
		return
	}
	if rows, _ := result.RowsAffected(); rows > 0 {
		log.Printf("🗑️ purged %d article rows older than %dh", rows, ageHours)
	}
}

// DeleteCategory drops every cached article of one category.
func (s *Store) DeleteCategory(ctx context.Context, category string) {
	if s == nil || s.db == nil {
		return
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE category_id = $1`, category); err != nil {
		log.Printf("⚠️ category delete failed for %s: %v", category, err)
	}
}

// Translation looks up a cached translation. Missing rows are a normal miss.
func (s *Store) Translation(ctx context.Context, articleID, lang string) (string, bool) {
	if s == nil || s.db == nil {
		return "", false
	}

	var text string
	err := s.db.QueryRowContext(ctx, `
		SELECT translated_text FROM translations
		WHERE article_id = $1 AND language_code = $2
	`, articleID, lang).Scan(&text)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("⚠️ translation cache read failed: %v", err)
		}
		return "", false
	}
	return text, true
}

// SaveTranslation writes a translation row. Rows are written once and never
// rewritten with different text in practice; the upsert only defends against
// concurrent first writers.
func (s *Store) SaveTranslation(ctx context.Context, articleID, lang, text string) {
	if s == nil || s.db == nil {
		return
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO translations (article_id, language_code, translated_text)
		VALUES ($1, $2, $3)
		ON CONFLICT (article_id, language_code) DO UPDATE SET translated_text = EXCLUDED.translated_text
	`, articleID, lang, text)
	if err != nil {
		log.Printf("⚠️ translation cache write failed: %v", err)
	}
}

// Enhanced returns the AI-expanded content for an article, if generated.
func (s *Store) Enhanced(ctx context.Context, articleID string) (EnhancedContent, bool) {
	if s == nil || s.db == nil {
		return EnhancedContent{}, false
	}

	var ec EnhancedContent
	err := s.db.QueryRowContext(ctx, `
		SELECT full_article, short_summary, transliterated_summary
		FROM enhanced_content WHERE article_id = $1
	`, articleID).Scan(&ec.FullArticle, &ec.ShortSummary, &ec.TransliteratedSummary)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("⚠️ enhanced content read failed: %v", err)
		}
		return EnhancedContent{}, false
	}
	return ec, true
}

// SaveEnhanced stores generated content so no other consumer pays for the
// same generation again.
func (s *Store) SaveEnhanced(ctx context.Context, articleID string, ec EnhancedContent) {
	if s == nil || s.db == nil {
		return
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO enhanced_content (article_id, full_article, short_summary, transliterated_summary)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (article_id) DO UPDATE SET
			full_article = EXCLUDED.full_article,
			short_summary = EXCLUDED.short_summary,
			transliterated_summary = EXCLUDED.transliterated_summary
	`, articleID, ec.FullArticle, ec.ShortSummary, ec.TransliteratedSummary)
	if err != nil {
		log.Printf("⚠️ enhanced content write failed: %v", err)
	}
}

// Audio returns cached synthesized audio, base64-encoded as it came over the
// transport.
func (s *Store) Audio(ctx context.Context, textHash, voice string) (string, bool) {
	if s == nil || s.db == nil {
		return "", false
	}

	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT audio_data FROM audio_cache
		WHERE text_hash = $1 AND voice_name = $2
	`, textHash, voice).Scan(&data)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("⚠️ audio cache read failed: %v", err)
		}
		return "", false
	}
	return data, true
}

// SaveAudio stores synthesized audio under its content hash.
func (s *Store) SaveAudio(ctx context.Context, textHash, voice, audioData string) {
	if s == nil || s.db == nil {
		return
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audio_cache (text_hash, voice_name, audio_data)
		VALUES ($1, $2, $3)
		ON CONFLICT (text_hash, voice_name) DO UPDATE SET audio_data = EXCLUDED.audio_data
	`, textHash, voice, audioData)
	if err != nil {
		log.Printf("⚠️ audio cache write failed: %v", err)
	}
}

// ActiveFeedSources returns the managed feed URL list for a category.
func (s *Store) ActiveFeedSources(ctx context.Context, category string) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT url FROM feed_sources
		WHERE category_id = $1 AND is_active
		ORDER BY position, id
	`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// Stats reports row counts per table, for the monitoring endpoint.
func (s *Store) Stats(ctx context.Context) map[string]int {
	stats := make(map[string]int)
	if s == nil || s.db == nil {
		return stats
	}
	for _, table := range []string{"articles", "translations", "enhanced_content", "audio_cache"} {
		var n int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err == nil {
			stats[table] = n
		}
	}
	return stats
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
