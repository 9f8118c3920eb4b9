package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "embed"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pagekeep/pagekeep/app/document"
	"github.com/pagekeep/pagekeep/app/preferences"
)

// SQLiteDatabase is a metadata store backed by a single SQLite file.
type SQLiteDatabase struct {
	conn *sql.DB
}

//go:embed db_setup.sql
var setupCommands string

func SQLiteFromFile(fileName string) (*SQLiteDatabase, error) {
	conn, err := sql.Open("sqlite3", fileName)

	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{conn}, nil
}

func (db *SQLiteDatabase) Setup() error {
	_, err := db.conn.Exec(setupCommands)
	return err
}

func (db *SQLiteDatabase) Close() error {
	return db.conn.Close()
}

func (db *SQLiteDatabase) InsertDocument(ctx context.Context, doc *document.Document) error {
	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("encoding document metadata: %w", err)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO documents (uuid, url, title, time, metadata, content_type) VALUES (?, ?, ?, ?, ?, ?);",
		doc.UUID[:], doc.URL, doc.Title, doc.Time.UTC().Format(time.RFC3339Nano), string(metadata), doc.Content.Kind())
	if err != nil {
		tx.Rollback()
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return err
	}

	switch content := doc.Content.(type) {
	case *document.WebPage:
		var rich sql.NullString
		if content.RichText != nil {
			rich = sql.NullString{String: *content.RichText, Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO webpages (document, plain, rich) VALUES (?, ?, ?);",
			id, content.Text, rich); err != nil {
			tx.Rollback()
			return err
		}
	default:
		tx.Rollback()
		return fmt.Errorf("content kind %q cannot be persisted", doc.Content.Kind())
	}

	return tx.Commit()
}

const documentColumns = `
	documents.uuid, documents.url, documents.title, documents.time,
	documents.metadata, documents.content_type, webpages.plain, webpages.rich`

const documentJoin = `
	FROM documents LEFT JOIN webpages ON webpages.document = documents.id`

func (db *SQLiteDatabase) GetDocument(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+documentColumns+documentJoin+" WHERE documents.uuid = ?;", id[:])
	return scanDocument(row)
}

func (db *SQLiteDatabase) GetDocumentByURL(ctx context.Context, url string) (*document.Document, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+documentColumns+documentJoin+" WHERE documents.url = ? LIMIT 1;", url)
	return scanDocument(row)
}

func (db *SQLiteDatabase) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM webpages WHERE document IN (SELECT id FROM documents WHERE uuid = ?);", id[:]); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE uuid = ?;", id[:]); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (db *SQLiteDatabase) ListDocuments(ctx context.Context) ([]document.Document, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+documentColumns+documentJoin+" ORDER BY documents.time;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []document.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	return docs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*document.Document, error) {
	var (
		rawUUID     []byte
		url         string
		title       string
		timeStr     string
		metadataStr string
		contentType string
		plain       sql.NullString
		rich        sql.NullString
	)

	err := row.Scan(&rawUUID, &url, &title, &timeStr, &metadataStr, &contentType, &plain, &rich)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	id, err := uuid.FromBytes(rawUUID)
	if err != nil {
		return nil, fmt.Errorf("document row holds an invalid uuid: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, timeStr)
	if err != nil {
		return nil, fmt.Errorf("document row holds an invalid time: %w", err)
	}

	metadata := map[string]any{}
	if err := json.Unmarshal([]byte(metadataStr), &metadata); err != nil {
		return nil, fmt.Errorf("document row holds invalid metadata: %w", err)
	}

	var content document.Content
	switch contentType {
	case "webpage":
		webpage := &document.WebPage{Text: plain.String}
		if rich.Valid {
			webpage.RichText = &rich.String
		}
		content = webpage
	default:
		return nil, fmt.Errorf("document row holds unknown content type %q", contentType)
	}

	return &document.Document{
		UUID:     id,
		Title:    title,
		URL:      url,
		Time:     t,
		Content:  content,
		Metadata: metadata,
	}, nil
}

func (db *SQLiteDatabase) SetPreference(ctx context.Context, pattern string, value string) error {
	_, err := db.conn.ExecContext(ctx,
		"REPLACE INTO url_preferences (pattern, preferences) VALUES (?, ?);", pattern, value)
	return err
}

func (db *SQLiteDatabase) DeletePreference(ctx context.Context, pattern string) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM url_preferences WHERE pattern = ?;", pattern)
	return err
}

func (db *SQLiteDatabase) ListPreferenceRows(ctx context.Context) ([]preferences.Row, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT pattern, preferences FROM url_preferences ORDER BY pattern;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []preferences.Row
	for rows.Next() {
		var row preferences.Row
		if err := rows.Scan(&row.Pattern, &row.Value); err != nil {
			return nil, err
		}
		prefs = append(prefs, row)
	}

	return prefs, rows.Err()
}
