package service

import (
	"context"
	"sort"
	"strconv"
	"testing"
	"time"

	"tasktracker/internal/apperror"
	"tasktracker/internal/database"
	"tasktracker/internal/model"
	"tasktracker/internal/store"
)

func restoreStore() {
	getUserByID = store.GetUserByID
	getUserByUsername = store.GetUserByUsername
	createUser = store.CreateUser
	updateUser = store.UpdateUser
	listUsers = store.ListUsers
	deleteUserCascade = store.DeleteUserCascade
	ensureSuperuser = store.EnsureSuperuser
	getProjectByID = store.GetProjectByID
	isContributor = store.IsContributor
	createProject = store.CreateProjectWithAuthor
	listProjectsForUser = store.ListProjectsForUser
	updateProject = store.UpdateProject
	deleteProject = store.DeleteProject
	listContributors = store.ListContributors
	getContributor = store.GetContributor
	createContributor = store.CreateContributor
	updateContributor = store.UpdateContributor
	deleteContributor = store.DeleteContributor
	listIssues = store.ListIssues
	getIssue = store.GetIssue
	createIssue = store.CreateIssue
	updateIssue = store.UpdateIssue
	deleteIssue = store.DeleteIssue
	listComments = store.ListComments
	getComment = store.GetComment
	createComment = store.CreateComment
	updateComment = store.UpdateComment
	deleteComment = store.DeleteComment
}

// memStore 以 map 模擬資料庫，語意與 PostgreSQL 版本相同 (含 cascade 與 unique)
type memStore struct {
	users        map[int]*model.User
	projects     map[int]*model.Project
	contributors map[int]*model.Contributor
	issues       map[int]*model.Issue
	comments     map[string]*model.Comment
	nextID       int
}

func useMemStore(t *testing.T) *memStore {
	t.Helper()
	m := &memStore{
		users:        map[int]*model.User{},
		projects:     map[int]*model.Project{},
		contributors: map[int]*model.Contributor{},
		issues:       map[int]*model.Issue{},
		comments:     map[string]*model.Comment{},
	}
	getUserByID = m.getUserByID
	getUserByUsername = m.getUserByUsername
	createUser = m.createUser
	updateUser = m.updateUser
	listUsers = m.listUsers
	deleteUserCascade = m.deleteUserCascade
	ensureSuperuser = m.ensureSuperuser
	getProjectByID = m.getProjectByID
	isContributor = m.isContributor
	createProject = m.createProject
	listProjectsForUser = m.listProjectsForUser
	updateProject = m.updateProject
	deleteProject = m.deleteProject
	listContributors = m.listContributors
	getContributor = m.getContributor
	createContributor = m.createContributor
	updateContributor = m.updateContributor
	deleteContributor = m.deleteContributor
	listIssues = m.listIssues
	getIssue = m.getIssue
	createIssue = m.createIssue
	updateIssue = m.updateIssue
	deleteIssue = m.deleteIssue
	listComments = m.listComments
	getComment = m.getComment
	createComment = m.createComment
	updateComment = m.updateComment
	deleteComment = m.deleteComment
	t.Cleanup(restoreStore)
	return m
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

func paginate[T any](all []T, page store.Page) ([]T, int) {
	count := len(all)
	if page.Offset >= count {
		return []T{}, count
	}
	end := page.Offset + page.Limit
	if end > count || end < 0 {
		end = count
	}
	return all[page.Offset:end], count
}

/* ---------- users ---------- */

func (m *memStore) addUser(name string, superuser bool) *model.User {
	u := &model.User{ID: m.id(), Username: name, Age: 20, IsSuperuser: superuser, CreatedTime: time.Now()}
	m.users[u.ID] = u
	return u
}

func (m *memStore) getUserByID(_ context.Context, _ database.Querier, id int) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("User not found.")
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) getUserByUsername(_ context.Context, _ database.Querier, name string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("User not found.")
}

func (m *memStore) createUser(_ context.Context, _ database.Querier, u *model.User) (*model.User, error) {
	for _, other := range m.users {
		if other.Username == u.Username {
			return nil, apperror.Conflict("A user with that username already exists.")
		}
	}
	u.ID = m.id()
	cp := *u
	m.users[u.ID] = &cp
	return u, nil
}

func (m *memStore) updateUser(_ context.Context, _ database.Querier, u *model.User) (*model.User, error) {
	cur, ok := m.users[u.ID]
	if !ok {
		return nil, apperror.NotFound("User not found.")
	}
	cur.Username, cur.Age, cur.PasswordHash = u.Username, u.Age, u.PasswordHash
	cur.CanBeContacted, cur.CanDataBeShared = u.CanBeContacted, u.CanDataBeShared
	cp := *cur
	return &cp, nil
}

func (m *memStore) listUsers(_ context.Context, _ database.Querier, page store.Page) ([]model.User, int, error) {
	all := []model.User{}
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	res, count := paginate(all, page)
	return res, count, nil
}

func (m *memStore) ensureSuperuser(_ context.Context, _ database.Querier, name, hash string, age int) (int, error) {
	for _, u := range m.users {
		if u.Username == name {
			u.IsSuperuser = true
			return u.ID, nil
		}
	}
	u := &model.User{ID: m.id(), Username: name, PasswordHash: hash, Age: age, IsSuperuser: true}
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *memStore) deleteIssueRows(pred func(*model.Issue) bool) int64 {
	var n int64
	for id, i := range m.issues {
		if pred(i) {
			for cid, c := range m.comments {
				if c.IssueID == id {
					delete(m.comments, cid)
				}
			}
			delete(m.issues, id)
			n++
		}
	}
	return n
}

func (m *memStore) deleteUserCascade(_ context.Context, _ database.DB, userID int) (store.CascadeReport, error) {
	if _, ok := m.users[userID]; !ok {
		return nil, apperror.NotFound("User not found.")
	}
	report := store.CascadeReport{}
	report["authored issues"] = m.deleteIssueRows(func(i *model.Issue) bool { return i.AuthorID == userID })
	for id, c := range m.comments {
		if c.AuthorID == userID {
			delete(m.comments, id)
		}
	}
	for id, c := range m.contributors {
		if c.UserID == userID {
			delete(m.contributors, id)
		}
	}
	for pid, p := range m.projects {
		if p.AuthorID == userID {
			m.dropProject(pid)
			report["owned projects"]++
		}
	}
	for _, i := range m.issues {
		if i.AssigneeID != nil && *i.AssigneeID == userID {
			i.AssigneeID = nil
		}
	}
	delete(m.users, userID)
	report["user"] = 1
	return report, nil
}

/* ---------- projects ---------- */

func (m *memStore) getProjectByID(_ context.Context, _ database.Querier, id int) (*model.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, apperror.NotFound("Project not found.")
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) isContributor(_ context.Context, _ database.Querier, projectID, userID int) (bool, error) {
	for _, c := range m.contributors {
		if c.ProjectID == projectID && c.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) createProject(ctx context.Context, db database.DB, p *model.Project) (*model.Project, error) {
	p.ID = m.id()
	cp := *p
	m.projects[p.ID] = &cp
	if _, err := m.createContributor(ctx, db, p.ID, p.AuthorID); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *memStore) listProjectsForUser(ctx context.Context, q database.Querier, userID int, page store.Page) ([]model.Project, int, error) {
	all := []model.Project{}
	for _, p := range m.projects {
		member, _ := m.isContributor(ctx, q, p.ID, userID)
		if p.AuthorID == userID || member {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	res, count := paginate(all, page)
	return res, count, nil
}

func (m *memStore) updateProject(_ context.Context, _ database.Querier, p *model.Project) (*model.Project, error) {
	cur, ok := m.projects[p.ID]
	if !ok {
		return nil, apperror.NotFound("Project not found.")
	}
	cur.Title, cur.Description, cur.Type = p.Title, p.Description, p.Type
	cp := *cur
	return &cp, nil
}

func (m *memStore) dropProject(id int) {
	m.deleteIssueRows(func(i *model.Issue) bool { return i.ProjectID == id })
	for cid, c := range m.contributors {
		if c.ProjectID == id {
			delete(m.contributors, cid)
		}
	}
	delete(m.projects, id)
}

func (m *memStore) deleteProject(_ context.Context, _ database.Querier, id int) error {
	if _, ok := m.projects[id]; !ok {
		return apperror.NotFound("Project not found.")
	}
	m.dropProject(id)
	return nil
}

/* ---------- contributors ---------- */

func (m *memStore) decorate(c model.Contributor) model.Contributor {
	if u, ok := m.users[c.UserID]; ok {
		c.Username = u.Username
	}
	if p, ok := m.projects[c.ProjectID]; ok {
		c.ProjectTitle = p.Title
	}
	return c
}

func (m *memStore) listContributors(_ context.Context, _ database.Querier, projectID int, page store.Page) ([]model.Contributor, int, error) {
	all := []model.Contributor{}
	for _, c := range m.contributors {
		if c.ProjectID == projectID {
			all = append(all, m.decorate(*c))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	res, count := paginate(all, page)
	return res, count, nil
}

func (m *memStore) getContributor(_ context.Context, _ database.Querier, projectID, id int) (*model.Contributor, error) {
	c, ok := m.contributors[id]
	if !ok || c.ProjectID != projectID {
		return nil, apperror.NotFound("Contributor not found.")
	}
	cp := m.decorate(*c)
	return &cp, nil
}

func (m *memStore) createContributor(ctx context.Context, q database.Querier, projectID, userID int) (*model.Contributor, error) {
	if dup, _ := m.isContributor(ctx, q, projectID, userID); dup {
		return nil, apperror.Conflict("This user is already a contributor of the project.")
	}
	c := &model.Contributor{ID: m.id(), UserID: userID, ProjectID: projectID, DateJoined: time.Now()}
	m.contributors[c.ID] = c
	cp := m.decorate(*c)
	return &cp, nil
}

func (m *memStore) updateContributor(ctx context.Context, q database.Querier, projectID, id, userID int) (*model.Contributor, error) {
	c, ok := m.contributors[id]
	if !ok || c.ProjectID != projectID {
		return nil, apperror.NotFound("Contributor not found.")
	}
	if dup, _ := m.isContributor(ctx, q, projectID, userID); dup {
		return nil, apperror.Conflict("This user is already a contributor of the project.")
	}
	c.UserID = userID
	cp := m.decorate(*c)
	return &cp, nil
}

func (m *memStore) deleteContributor(_ context.Context, _ database.Querier, projectID, id int) error {
	c, ok := m.contributors[id]
	if !ok || c.ProjectID != projectID {
		return apperror.NotFound("Contributor not found.")
	}
	delete(m.contributors, id)
	return nil
}

/* ---------- issues ---------- */

func (m *memStore) listIssues(_ context.Context, _ database.Querier, projectID int, page store.Page) ([]model.Issue, int, error) {
	all := []model.Issue{}
	for _, i := range m.issues {
		if i.ProjectID == projectID {
			all = append(all, *i)
		}
	}
	sort.Slice(all, func(a, b int) bool { return all[a].ID < all[b].ID })
	res, count := paginate(all, page)
	return res, count, nil
}

func (m *memStore) getIssue(_ context.Context, _ database.Querier, projectID, id int) (*model.Issue, error) {
	i, ok := m.issues[id]
	if !ok || i.ProjectID != projectID {
		return nil, apperror.NotFound("Issue not found.")
	}
	cp := *i
	return &cp, nil
}

func (m *memStore) createIssue(_ context.Context, _ database.Querier, i *model.Issue) (*model.Issue, error) {
	i.ID = m.id()
	if u, ok := m.users[i.AuthorID]; ok {
		i.AuthorUsername = u.Username
	}
	cp := *i
	m.issues[i.ID] = &cp
	return i, nil
}

func (m *memStore) updateIssue(_ context.Context, _ database.Querier, i *model.Issue) (*model.Issue, error) {
	if cur, ok := m.issues[i.ID]; !ok || cur.ProjectID != i.ProjectID {
		return nil, apperror.NotFound("Issue not found.")
	}
	cp := *i
	m.issues[i.ID] = &cp
	return i, nil
}

func (m *memStore) deleteIssue(_ context.Context, _ database.Querier, projectID, id int) error {
	if i, ok := m.issues[id]; !ok || i.ProjectID != projectID {
		return apperror.NotFound("Issue not found.")
	}
	m.deleteIssueRows(func(i *model.Issue) bool { return i.ID == id })
	return nil
}

/* ---------- comments ---------- */

func (m *memStore) listComments(_ context.Context, _ database.Querier, issueID int, page store.Page) ([]model.Comment, int, error) {
	all := []model.Comment{}
	for _, c := range m.comments {
		if c.IssueID == issueID {
			all = append(all, *c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	res, count := paginate(all, page)
	return res, count, nil
}

func (m *memStore) getComment(_ context.Context, _ database.Querier, issueID int, id string) (*model.Comment, error) {
	c, ok := m.comments[id]
	if !ok || c.IssueID != issueID {
		return nil, apperror.NotFound("Comment not found.")
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) createComment(_ context.Context, _ database.Querier, c *model.Comment) (*model.Comment, error) {
	c.ID = "c" + strconv.Itoa(m.id())
	if u, ok := m.users[c.AuthorID]; ok {
		c.AuthorUsername = u.Username
	}
	cp := *c
	m.comments[c.ID] = &cp
	return c, nil
}

func (m *memStore) updateComment(_ context.Context, _ database.Querier, c *model.Comment) (*model.Comment, error) {
	cur, ok := m.comments[c.ID]
	if !ok || cur.IssueID != c.IssueID {
		return nil, apperror.NotFound("Comment not found.")
	}
	cur.Text = c.Text
	cp := *cur
	return &cp, nil
}

func (m *memStore) deleteComment(_ context.Context, _ database.Querier, issueID int, id string) error {
	c, ok := m.comments[id]
	if !ok || c.IssueID != issueID {
		return apperror.NotFound("Comment not found.")
	}
	delete(m.comments, id)
	return nil
}
