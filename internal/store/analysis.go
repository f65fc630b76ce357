package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/concord/pkg/types"
)

// defaultHistoryLimit bounds history listings when no limit is given.
const defaultHistoryLimit = 10

// AnalysisResultRow is one serialized result payload to persist alongside
// an analysis history row.
type AnalysisResultRow struct {
	Type      string
	Data      []byte
	ChartPath string
}

// AnalysisFilter narrows history listings. Zero-valued fields are
// ignored; set fields are AND-combined.
type AnalysisFilter struct {
	Limit        int
	UserID       string
	SessionID    string
	AnalysisType string
	ScopeType    string
}

// SaveAnalysis inserts a history row and all of its result rows in one
// transaction. The record's ID is generated here; UserName falls back to
// the "Unknown" sentinel so the NOT NULL constraint always holds.
// Returns the new analysis ID.
func (s *Store) SaveAnalysis(rec types.AnalysisRecord, results []AnalysisResultRow) (string, error) {
	if rec.UserName == "" {
		rec.UserName = types.UnknownUser
	}
	details, err := json.Marshal(rec.ScopeDetails)
	if err != nil {
		return "", fmt.Errorf("serializing scope details: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id := newID()
	_, err = tx.Exec(
		`INSERT INTO analysis_history (id, user_id, session_id, user_name, analysis_type, scope_type, scope_details, verse_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, nullable(rec.UserID), nullable(rec.SessionID), rec.UserName,
		rec.AnalysisType, rec.ScopeType, string(details), rec.VerseCount, now(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting analysis history: %w", err)
	}

	for _, r := range results {
		_, err = tx.Exec(
			`INSERT INTO analysis_results (id, analysis_id, result_type, result_data, chart_path, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			newID(), id, r.Type, string(r.Data), nullable(r.ChartPath), now(),
		)
		if err != nil {
			return "", fmt.Errorf("inserting %s result: %w", r.Type, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing analysis: %w", err)
	}
	return id, nil
}

// AnalysisHistory returns history rows matching the filter, newest first
// with a stable rowid tiebreak for equal timestamps.
func (s *Store) AnalysisHistory(f AnalysisFilter) ([]types.AnalysisRecord, error) {
	var conditions []string
	var args []any

	if f.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.SessionID != "" {
		conditions = append(conditions, "session_id = ?")
		args = append(args, f.SessionID)
	}
	if f.AnalysisType != "" {
		conditions = append(conditions, "analysis_type = ?")
		args = append(args, f.AnalysisType)
	}
	if f.ScopeType != "" {
		conditions = append(conditions, "scope_type = ?")
		args = append(args, f.ScopeType)
	}

	query := "SELECT id, user_id, session_id, user_name, analysis_type, scope_type, scope_details, verse_count, created_at FROM analysis_history"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	limit := f.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying analysis history: %w", err)
	}
	defer rows.Close()

	var records []types.AnalysisRecord
	for rows.Next() {
		rec, err := scanAnalysisRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// AnalysisDetail returns a history row joined with all of its results,
// each payload deserialized into its native shape. Nil if the ID is
// unknown.
func (s *Store) AnalysisDetail(id string) (*types.AnalysisDetail, error) {
	if id == "" {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT h.id, h.user_id, h.session_id, h.user_name, h.analysis_type,
		        h.scope_type, h.scope_details, h.verse_count, h.created_at,
		        r.result_type, r.result_data, r.chart_path
		 FROM analysis_history h
		 LEFT JOIN analysis_results r ON h.id = r.analysis_id
		 WHERE h.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("querying analysis %s: %w", id, err)
	}
	defer rows.Close()

	var detail *types.AnalysisDetail
	for rows.Next() {
		var resultType, resultData, chartPath sql.NullString
		rec, err := scanAnalysisRecord(func(dest ...any) error {
			dest = append(dest, &resultType, &resultData, &chartPath)
			return rows.Scan(dest...)
		})
		if err != nil {
			return nil, err
		}
		if detail == nil {
			detail = &types.AnalysisDetail{
				AnalysisRecord: *rec,
				Results:        make(map[string]types.ResultData),
				ChartPaths:     make(map[string]string),
			}
		}
		if !resultType.Valid {
			continue
		}
		data, err := decodeResultData(resultType.String, []byte(resultData.String))
		if err != nil {
			return nil, fmt.Errorf("analysis %s: %w", id, err)
		}
		detail.Results[resultType.String] = data
		if chartPath.Valid && chartPath.String != "" {
			detail.ChartPaths[resultType.String] = chartPath.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return detail, nil
}

// decodeResultData dispatches on the result type: word frequency and
// n-gram payloads are pair lists, everything else is a mapping.
func decodeResultData(resultType string, data []byte) (types.ResultData, error) {
	switch resultType {
	case types.ResultWordFreq, types.ResultBigram, types.ResultTrigram:
		var pairs []types.WordCount
		if err := json.Unmarshal(data, &pairs); err != nil {
			return types.ResultData{}, fmt.Errorf("decoding %s pairs: %w", resultType, err)
		}
		return types.ResultData{Pairs: pairs}, nil
	default:
		var mapping map[string]any
		if err := json.Unmarshal(data, &mapping); err != nil {
			return types.ResultData{}, fmt.Errorf("decoding %s mapping: %w", resultType, err)
		}
		return types.ResultData{Mapping: mapping}, nil
	}
}

// scanAnalysisRecord scans the nine analysis_history columns through the
// given scan function, which may append extra destinations.
func scanAnalysisRecord(scan func(...any) error) (*types.AnalysisRecord, error) {
	var rec types.AnalysisRecord
	var userID, sessionID, details sql.NullString
	var createdAt string

	err := scan(&rec.ID, &userID, &sessionID, &rec.UserName, &rec.AnalysisType,
		&rec.ScopeType, &details, &rec.VerseCount, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("scanning analysis record: %w", err)
	}
	rec.UserID = userID.String
	rec.SessionID = sessionID.String
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if details.Valid && details.String != "" && details.String != "null" {
		if err := json.Unmarshal([]byte(details.String), &rec.ScopeDetails); err != nil {
			return nil, fmt.Errorf("decoding scope details: %w", err)
		}
	}
	return &rec, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
