package store

import (
	"context"
	"fmt"

	"tasktracker/internal/apperror"
	"tasktracker/internal/database"
	"tasktracker/internal/model"

	"github.com/jackc/pgx/v5"
)

const projectColumns = `id, title, description, type, author_id, created_time`

func scanProject(row pgx.Row) (*model.Project, error) {
	p := &model.Project{}
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Type,
		&p.AuthorID,
		&p.CreatedTime,
	); err != nil {
		return nil, err
	}
	return p, nil
}

func GetProjectByID(ctx context.Context, q database.Querier, projectID int) (*model.Project, error) {
	p, err := scanProject(q.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`,
		projectID,
	))
	if err != nil {
		return nil, translate("GetProjectByID", err, "Project not found.")
	}
	return p, nil
}

func IsContributor(ctx context.Context, q database.Querier, projectID, userID int) (bool, error) {
	var ok bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM contributors WHERE project_id = $1 AND user_id = $2)`,
		projectID, userID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("IsContributor: %w", err)
	}
	return ok, nil
}

// CreateProjectWithAuthor 在同一個交易中建立專案與作者的 contributor 紀錄
func CreateProjectWithAuthor(ctx context.Context, db database.DB, p *model.Project) (*model.Project, error) {
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO projects (title, description, type, author_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_time`,
			p.Title,
			p.Description,
			p.Type,
			p.AuthorID,
		).Scan(&p.ID, &p.CreatedTime); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO contributors (user_id, project_id) VALUES ($1, $2)`,
			p.AuthorID, p.ID,
		)
		return err
	})
	if err != nil {
		return nil, translate("CreateProjectWithAuthor", err, "User not found.")
	}
	return p, nil
}

// ListProjectsForUser 使用者為作者或貢獻者的專案，依 id 排序
func ListProjectsForUser(ctx context.Context, q database.Querier, userID int, page Page) ([]model.Project, int, error) {
	const where = `WHERE author_id = $1
		OR id IN (SELECT project_id FROM contributors WHERE user_id = $1)`

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM projects `+where, userID).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("ListProjectsForUser: %w", err)
	}
	rows, err := q.Query(ctx,
		`SELECT `+projectColumns+` FROM projects `+where+`
		 ORDER BY id LIMIT $2 OFFSET $3`,
		userID, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListProjectsForUser: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListProjectsForUser: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListProjectsForUser: %w", err)
	}
	return projects, count, nil
}

// UpdateProject author_id 不可變更
func UpdateProject(ctx context.Context, q database.Querier, p *model.Project) (*model.Project, error) {
	updated, err := scanProject(q.QueryRow(ctx,
		`UPDATE projects
		 SET title = $1, description = $2, type = $3
		 WHERE id = $4
		 RETURNING `+projectColumns,
		p.Title,
		p.Description,
		p.Type,
		p.ID,
	))
	if err != nil {
		return nil, translate("UpdateProject", err, "Project not found.")
	}
	return updated, nil
}

// DeleteProject contributors、issues、comments 由外鍵 ON DELETE CASCADE 一併刪除
func DeleteProject(ctx context.Context, q database.Querier, projectID int) error {
	tag, err := q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("DeleteProject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteProject: %w", apperror.NotFound("Project not found."))
	}
	return nil
}
