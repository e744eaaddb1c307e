package store

import (
	"context"
	"fmt"

	"tasktracker/internal/apperror"
	"tasktracker/internal/database"

	"github.com/jackc/pgx/v5"
)

type cascadeStep struct {
	name string
	sql  string
}

// userCascadeSteps 依外鍵相依順序排列，$1 為被刪除的使用者
var userCascadeSteps = []cascadeStep{
	{"comments on authored issues", `DELETE FROM comments WHERE issue_id IN (SELECT id FROM issues WHERE author_id = $1)`},
	{"authored issues", `DELETE FROM issues WHERE author_id = $1`},
	{"authored comments", `DELETE FROM comments WHERE author_id = $1`},
	{"contributor rows", `DELETE FROM contributors WHERE user_id = $1`},
	{"comments of owned projects", `DELETE FROM comments WHERE issue_id IN (
		SELECT i.id FROM issues i JOIN projects p ON p.id = i.project_id WHERE p.author_id = $1)`},
	{"issues of owned projects", `DELETE FROM issues WHERE project_id IN (SELECT id FROM projects WHERE author_id = $1)`},
	{"contributors of owned projects", `DELETE FROM contributors WHERE project_id IN (SELECT id FROM projects WHERE author_id = $1)`},
	{"owned projects", `DELETE FROM projects WHERE author_id = $1`},
	{"assignments", `UPDATE issues SET assignee_id = NULL WHERE assignee_id = $1`},
}

// CascadeReport 每個步驟影響的筆數
type CascadeReport map[string]int64

// DeleteUserCascade 在單一交易中刪除使用者與所有依附資料，任一步失敗整筆回滾
func DeleteUserCascade(ctx context.Context, db database.DB, userID int) (CascadeReport, error) {
	report := CascadeReport{}
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		for _, step := range userCascadeSteps {
			tag, err := tx.Exec(ctx, step.sql, userID)
			if err != nil {
				return fmt.Errorf("%s: %w", step.name, err)
			}
			report[step.name] = tag.RowsAffected()
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
		if err != nil {
			return fmt.Errorf("user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound("User not found.")
		}
		report["user"] = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("DeleteUserCascade: %w", err)
	}
	return report, nil
}
