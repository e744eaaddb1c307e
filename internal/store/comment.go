package store

import (
	"context"
	"fmt"

	"tasktracker/internal/apperror"
	"tasktracker/internal/database"
	"tasktracker/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// newCommentID 產生留言的 UUID v4，測試可覆寫
var newCommentID = uuid.NewString

const commentSelect = `SELECT c.id::text, c.text, c.issue_id, c.author_id, u.username, c.created_time
	FROM %s c
	JOIN users u ON u.id = c.author_id`

func scanComment(row pgx.Row) (*model.Comment, error) {
	c := &model.Comment{}
	if err := row.Scan(
		&c.ID,
		&c.Text,
		&c.IssueID,
		&c.AuthorID,
		&c.AuthorUsername,
		&c.CreatedTime,
	); err != nil {
		return nil, err
	}
	return c, nil
}

func ListComments(ctx context.Context, q database.Querier, issueID int, page Page) ([]model.Comment, int, error) {
	var count int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE issue_id = $1`, issueID,
	).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("ListComments: %w", err)
	}
	rows, err := q.Query(ctx,
		fmt.Sprintf(commentSelect, "comments")+`
		 WHERE c.issue_id = $1
		 ORDER BY c.created_time, c.id LIMIT $2 OFFSET $3`,
		issueID, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListComments: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListComments: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListComments: %w", err)
	}
	return comments, count, nil
}

// GetComment 留言不屬於 issueID 時視為不存在
func GetComment(ctx context.Context, q database.Querier, issueID int, commentID string) (*model.Comment, error) {
	c, err := scanComment(q.QueryRow(ctx,
		fmt.Sprintf(commentSelect, "comments")+`
		 WHERE c.issue_id = $1 AND c.id = $2::uuid`,
		issueID, commentID,
	))
	if err != nil {
		return nil, translate("GetComment", err, "Comment not found.")
	}
	return c, nil
}

func CreateComment(ctx context.Context, q database.Querier, in *model.Comment) (*model.Comment, error) {
	c, err := scanComment(q.QueryRow(ctx,
		`WITH ins AS (
			INSERT INTO comments (id, text, issue_id, author_id)
			VALUES ($1::uuid, $2, $3, $4)
			RETURNING id, text, issue_id, author_id, created_time
		 ) `+fmt.Sprintf(commentSelect, "ins"),
		newCommentID(),
		in.Text,
		in.IssueID,
		in.AuthorID,
	))
	if err != nil {
		return nil, translate("CreateComment", err, "Comment not found.")
	}
	return c, nil
}

// UpdateComment 只有 text 可以修改
func UpdateComment(ctx context.Context, q database.Querier, in *model.Comment) (*model.Comment, error) {
	c, err := scanComment(q.QueryRow(ctx,
		`WITH upd AS (
			UPDATE comments SET text = $1
			WHERE issue_id = $2 AND id = $3::uuid
			RETURNING id, text, issue_id, author_id, created_time
		 ) `+fmt.Sprintf(commentSelect, "upd"),
		in.Text,
		in.IssueID,
		in.ID,
	))
	if err != nil {
		return nil, translate("UpdateComment", err, "Comment not found.")
	}
	return c, nil
}

func DeleteComment(ctx context.Context, q database.Querier, issueID int, commentID string) error {
	tag, err := q.Exec(ctx,
		`DELETE FROM comments WHERE issue_id = $1 AND id = $2::uuid`,
		issueID, commentID,
	)
	if err != nil {
		return fmt.Errorf("DeleteComment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteComment: %w", apperror.NotFound("Comment not found."))
	}
	return nil
}
