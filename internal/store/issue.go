package store

import (
	"context"
	"errors"
	"fmt"

	"tasktracker/internal/apperror"
	"tasktracker/internal/database"
	"tasktracker/internal/model"

	"github.com/jackc/pgx/v5"
)

const issueSelect = `SELECT i.id, i.title, i.description, i.tag, i.priority, i.status,
	i.project_id, i.author_id, u.username, i.assignee_id, i.created_time
	FROM %s i
	JOIN users u ON u.id = i.author_id`

const issueReturning = `RETURNING id, title, description, tag, priority, status, project_id, author_id, assignee_id, created_time`

// AssigneeNotContributor 指派對象不是專案 contributor 時的欄位訊息
const AssigneeNotContributor = "Assignee must be a contributor of the project."

func assigneeError(op string) error {
	return fmt.Errorf("%s: %w", op, apperror.Field("assignee", AssigneeNotContributor))
}

func scanIssue(row pgx.Row) (*model.Issue, error) {
	i := &model.Issue{}
	if err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Description,
		&i.Tag,
		&i.Priority,
		&i.Status,
		&i.ProjectID,
		&i.AuthorID,
		&i.AuthorUsername,
		&i.AssigneeID,
		&i.CreatedTime,
	); err != nil {
		return nil, err
	}
	return i, nil
}

func ListIssues(ctx context.Context, q database.Querier, projectID int, page Page) ([]model.Issue, int, error) {
	var count int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM issues WHERE project_id = $1`, projectID,
	).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("ListIssues: %w", err)
	}
	rows, err := q.Query(ctx,
		fmt.Sprintf(issueSelect, "issues")+`
		 WHERE i.project_id = $1
		 ORDER BY i.id LIMIT $2 OFFSET $3`,
		projectID, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListIssues: %w", err)
	}
	defer rows.Close()

	issues := []model.Issue{}
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListIssues: %w", err)
		}
		issues = append(issues, *i)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListIssues: %w", err)
	}
	return issues, count, nil
}

// GetIssue issue 不屬於 projectID 時視為不存在
func GetIssue(ctx context.Context, q database.Querier, projectID, issueID int) (*model.Issue, error) {
	i, err := scanIssue(q.QueryRow(ctx,
		fmt.Sprintf(issueSelect, "issues")+`
		 WHERE i.project_id = $1 AND i.id = $2`,
		projectID, issueID,
	))
	if err != nil {
		return nil, translate("GetIssue", err, "Issue not found.")
	}
	return i, nil
}

// CreateIssue 指派對象在寫入時再檢查一次 contributor 身分，不成立則不插入
func CreateIssue(ctx context.Context, q database.Querier, in *model.Issue) (*model.Issue, error) {
	if in.Status == "" {
		in.Status = model.StatusToDo
	}
	i, err := scanIssue(q.QueryRow(ctx,
		`WITH ins AS (
			INSERT INTO issues (title, description, tag, priority, status, project_id, author_id, assignee_id)
			SELECT $1::text, $2::text, $3::text, $4::text, $5::text, $6::int, $7::int, $8::int
			WHERE $8::int IS NULL
			   OR EXISTS (SELECT 1 FROM contributors WHERE project_id = $6::int AND user_id = $8::int)
			`+issueReturning+`
		 ) `+fmt.Sprintf(issueSelect, "ins"),
		in.Title,
		in.Description,
		in.Tag,
		in.Priority,
		in.Status,
		in.ProjectID,
		in.AuthorID,
		in.AssigneeID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, assigneeError("CreateIssue")
	}
	if err != nil {
		return nil, translate("CreateIssue", err, "Issue not found.")
	}
	return i, nil
}

// UpdateIssue project_id 與 author_id 不可變更；
// 指派對象有變動時必須仍是 contributor，否則不更新
func UpdateIssue(ctx context.Context, q database.Querier, in *model.Issue) (*model.Issue, error) {
	i, err := scanIssue(q.QueryRow(ctx,
		`WITH upd AS (
			UPDATE issues
			SET title = $1, description = $2, tag = $3, priority = $4, status = $5, assignee_id = $6
			WHERE project_id = $7 AND id = $8
			  AND ($6::int IS NULL
			       OR assignee_id IS NOT DISTINCT FROM $6::int
			       OR EXISTS (SELECT 1 FROM contributors c WHERE c.project_id = $7 AND c.user_id = $6::int))
			`+issueReturning+`
		 ) `+fmt.Sprintf(issueSelect, "upd"),
		in.Title,
		in.Description,
		in.Tag,
		in.Priority,
		in.Status,
		in.AssigneeID,
		in.ProjectID,
		in.ID,
	))
	if errors.Is(err, pgx.ErrNoRows) && in.AssigneeID != nil {
		// 沒有更新到任何列：issue 不存在或指派對象不合格
		ok, cerr := IsContributor(ctx, q, in.ProjectID, *in.AssigneeID)
		if cerr != nil {
			return nil, fmt.Errorf("UpdateIssue: %w", cerr)
		}
		if !ok {
			return nil, assigneeError("UpdateIssue")
		}
	}
	if err != nil {
		return nil, translate("UpdateIssue", err, "Issue not found.")
	}
	return i, nil
}

// DeleteIssue 留言由外鍵 ON DELETE CASCADE 一併刪除
func DeleteIssue(ctx context.Context, q database.Querier, projectID, issueID int) error {
	tag, err := q.Exec(ctx,
		`DELETE FROM issues WHERE project_id = $1 AND id = $2`,
		projectID, issueID,
	)
	if err != nil {
		return fmt.Errorf("DeleteIssue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteIssue: %w", apperror.NotFound("Issue not found."))
	}
	return nil
}
