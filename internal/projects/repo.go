package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/craftwise/craftwise-backend/internal/analysis"
	"github.com/lib/pq"
)

// ErrInvalidProject is returned when a save is attempted without the
// required fields.
var ErrInvalidProject = errors.New("title and analysis are required")

type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Analysis is the persisted analysis row. Materials stays an opaque jsonb
// blob so optional per-material fields survive the round trip untouched.
type Analysis struct {
	ID             int64           `json:"id"`
	ProjectID      int64           `json:"projectId"`
	Difficulty     int             `json:"difficulty"`
	EstimatedTime  float64         `json:"estimatedTime"`
	EstimatedCost  float64         `json:"estimatedCost"`
	RequiredSkills []string        `json:"requiredSkills"`
	Notes          string          `json:"notes"`
	Materials      json.RawMessage `json:"materials"`
}

type ProjectWithAnalysis struct {
	Project
	Analysis *Analysis `json:"analysis"`
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

type SaveInput struct {
	Title       string
	Description string
	ImageURL    *string
	Analysis    *analysis.Result
}

// Save inserts the project and its analysis as one transaction. Either
// both rows become visible or neither does.
func (r *Repo) Save(ctx context.Context, in SaveInput) (*ProjectWithAnalysis, error) {
	if in.Title == "" || in.Analysis == nil {
		return nil, ErrInvalidProject
	}

	materials, err := json.Marshal(in.Analysis.Materials)
	if err != nil {
		return nil, fmt.Errorf("marshal materials: %w", err)
	}

	skills := in.Analysis.RequiredSkills
	if skills == nil {
		skills = []string{}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	out := &ProjectWithAnalysis{
		Project: Project{
			Title:       in.Title,
			Description: in.Description,
			ImageURL:    in.ImageURL,
		},
		Analysis: &Analysis{
			Difficulty:     in.Analysis.Difficulty,
			EstimatedTime:  in.Analysis.EstimatedTime,
			EstimatedCost:  in.Analysis.EstimatedCost,
			RequiredSkills: skills,
			Notes:          in.Analysis.Notes,
			Materials:      materials,
		},
	}

	const insertProject = `
INSERT INTO projects (title, description, image_url)
VALUES ($1, $2, $3)
RETURNING id, created_at;
`
	err = tx.QueryRowContext(ctx, insertProject, in.Title, in.Description, in.ImageURL).
		Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	const insertAnalysis = `
INSERT INTO analyses (project_id, difficulty, estimated_time, estimated_cost, required_skills, notes, materials)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id;
`
	err = tx.QueryRowContext(ctx, insertAnalysis,
		out.ID,
		out.Analysis.Difficulty,
		out.Analysis.EstimatedTime,
		out.Analysis.EstimatedCost,
		pq.Array(skills),
		out.Analysis.Notes,
		materials,
	).Scan(&out.Analysis.ID)
	if err != nil {
		return nil, fmt.Errorf("insert analysis: %w", err)
	}
	out.Analysis.ProjectID = out.ID

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return out, nil
}

// ListAll returns every project left-joined with its analysis. Projects
// without one still appear, with a nil analysis. Order is unspecified.
func (r *Repo) ListAll(ctx context.Context) ([]ProjectWithAnalysis, error) {
	const q = `
SELECT p.id, p.title, p.description, p.image_url, p.created_at,
       a.id, a.project_id, a.difficulty, a.estimated_time, a.estimated_cost,
       a.required_skills, a.notes, a.materials
FROM projects p
LEFT JOIN analyses a ON a.project_id = p.id;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]ProjectWithAnalysis, 0, 16)
	for rows.Next() {
		var (
			p          ProjectWithAnalysis
			analysisID sql.NullInt64
			projectID  sql.NullInt64
			difficulty sql.NullInt64
			estTime    sql.NullFloat64
			estCost    sql.NullFloat64
			skills     pq.StringArray
			notes      sql.NullString
			materials  []byte
		)
		err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.CreatedAt,
			&analysisID, &projectID, &difficulty, &estTime, &estCost,
			&skills, &notes, &materials,
		)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}

		if analysisID.Valid {
			p.Analysis = &Analysis{
				ID:             analysisID.Int64,
				ProjectID:      projectID.Int64,
				Difficulty:     int(difficulty.Int64),
				EstimatedTime:  estTime.Float64,
				EstimatedCost:  estCost.Float64,
				RequiredSkills: []string(skills),
				Notes:          notes.String,
				Materials:      json.RawMessage(materials),
			}
			if p.Analysis.RequiredSkills == nil {
				p.Analysis.RequiredSkills = []string{}
			}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
