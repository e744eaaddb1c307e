package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindInternal, KindOf(errors.New("x")))
	require.Equal(t, KindInternal, KindOf(nil))
	require.Equal(t, KindNotFound, KindOf(NotFound("project not found")))
	require.Equal(t, KindPermission, KindOf(fmt.Errorf("UpdateIssue: %w", Permission("denied"))))
	require.Equal(t, KindConflict, KindOf(Conflict("dup")))

	require.True(t, Is(Field("age", "too young"), KindValidation))
	require.False(t, Is(nil, KindValidation))
}

func TestErrorFormatting(t *testing.T) {
	e := Field("assignee", "Assignee must be a contributor of the project.")
	require.Equal(t, "validation: Assignee must be a contributor of the project.", e.Error())
	require.Equal(t, map[string]string{"assignee": "Assignee must be a contributor of the project."}, e.Fields)

	base := errors.New("boom")
	w := Wrap(KindConflict, "username taken", base)
	require.ErrorIs(t, w, base)
	require.Equal(t, "conflict: username taken: boom", w.Error())
	require.Equal(t, "internal", KindInternal.String())
	require.Equal(t, "not_found", KindNotFound.String())
}
