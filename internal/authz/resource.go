package authz

import "tasktracker/internal/model"

type resource struct {
	owner   int
	project int
}

func (r resource) OwnerID() int   { return r.owner }
func (r resource) ProjectID() int { return r.project }

func Project(p *model.Project) Resource {
	return resource{owner: p.AuthorID, project: p.ID}
}

// Contributor 貢獻者紀錄的擁有者是該使用者本人
func Contributor(c *model.Contributor) Resource {
	return resource{owner: c.UserID, project: c.ProjectID}
}

func Issue(i *model.Issue) Resource {
	return resource{owner: i.AuthorID, project: i.ProjectID}
}

// Comment 留言本身不帶專案，由所屬 issue 的專案決定
func Comment(cm *model.Comment, projectID int) Resource {
	return resource{owner: cm.AuthorID, project: projectID}
}

func User(u *model.User) Resource {
	return resource{owner: u.ID}
}
