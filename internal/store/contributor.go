package store

import (
	"context"
	"fmt"

	"tasktracker/internal/apperror"
	"tasktracker/internal/database"
	"tasktracker/internal/model"

	"github.com/jackc/pgx/v5"
)

const contributorSelect = `SELECT c.id, c.user_id, c.project_id, c.date_joined, u.username, p.title
	FROM %s c
	JOIN users u ON u.id = c.user_id
	JOIN projects p ON p.id = c.project_id`

func scanContributor(row pgx.Row) (*model.Contributor, error) {
	c := &model.Contributor{}
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.ProjectID,
		&c.DateJoined,
		&c.Username,
		&c.ProjectTitle,
	); err != nil {
		return nil, err
	}
	return c, nil
}

func ListContributors(ctx context.Context, q database.Querier, projectID int, page Page) ([]model.Contributor, int, error) {
	var count int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM contributors WHERE project_id = $1`, projectID,
	).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("ListContributors: %w", err)
	}
	rows, err := q.Query(ctx,
		fmt.Sprintf(contributorSelect, "contributors")+`
		 WHERE c.project_id = $1
		 ORDER BY c.id LIMIT $2 OFFSET $3`,
		projectID, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListContributors: %w", err)
	}
	defer rows.Close()

	contributors := []model.Contributor{}
	for rows.Next() {
		c, err := scanContributor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListContributors: %w", err)
		}
		contributors = append(contributors, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListContributors: %w", err)
	}
	return contributors, count, nil
}

// GetContributor 只回傳屬於 projectID 的紀錄
func GetContributor(ctx context.Context, q database.Querier, projectID, contributorID int) (*model.Contributor, error) {
	c, err := scanContributor(q.QueryRow(ctx,
		fmt.Sprintf(contributorSelect, "contributors")+`
		 WHERE c.project_id = $1 AND c.id = $2`,
		projectID, contributorID,
	))
	if err != nil {
		return nil, translate("GetContributor", err, "Contributor not found.")
	}
	return c, nil
}

// CreateContributor 重複的 (user, project) 由 UNIQUE constraint 擋下並回傳 Conflict
func CreateContributor(ctx context.Context, q database.Querier, projectID, userID int) (*model.Contributor, error) {
	c, err := scanContributor(q.QueryRow(ctx,
		`WITH ins AS (
			INSERT INTO contributors (user_id, project_id) VALUES ($1, $2)
			RETURNING id, user_id, project_id, date_joined
		 ) `+fmt.Sprintf(contributorSelect, "ins"),
		userID, projectID,
	))
	if err != nil {
		return nil, translate("CreateContributor", err, "Contributor not found.")
	}
	return c, nil
}

// UpdateContributor 將紀錄改指向另一個使用者
func UpdateContributor(ctx context.Context, q database.Querier, projectID, contributorID, userID int) (*model.Contributor, error) {
	c, err := scanContributor(q.QueryRow(ctx,
		`WITH upd AS (
			UPDATE contributors SET user_id = $1
			WHERE project_id = $2 AND id = $3
			RETURNING id, user_id, project_id, date_joined
		 ) `+fmt.Sprintf(contributorSelect, "upd"),
		userID, projectID, contributorID,
	))
	if err != nil {
		return nil, translate("UpdateContributor", err, "Contributor not found.")
	}
	return c, nil
}

func DeleteContributor(ctx context.Context, q database.Querier, projectID, contributorID int) error {
	tag, err := q.Exec(ctx,
		`DELETE FROM contributors WHERE project_id = $1 AND id = $2`,
		projectID, contributorID,
	)
	if err != nil {
		return fmt.Errorf("DeleteContributor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteContributor: %w", apperror.NotFound("Contributor not found."))
	}
	return nil
}
