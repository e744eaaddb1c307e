// Package authz 是純粹的授權判斷：輸入呼叫者、動作、資源種類與專案關係，
// 輸出允許與否。這裡不做任何 I/O，專案關係 (Standing) 由 service 層查好後傳入。
package authz

type Action string

const (
	ActionList          Action = "list"
	ActionRetrieve      Action = "retrieve"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDestroy       Action = "destroy"
)

// Safe list / retrieve 為唯讀動作
func (a Action) Safe() bool {
	return a == ActionList || a == ActionRetrieve
}

type Kind string

const (
	KindProject     Kind = "project"
	KindContributor Kind = "contributor"
	KindIssue       Kind = "issue"
	KindComment     Kind = "comment"
	KindUser        Kind = "user"
)

// Caller 已通過驗證的請求者
type Caller struct {
	ID          int
	IsSuperuser bool
}

// Resource 所有受保護物件共同的能力介面
type Resource interface {
	OwnerID() int
	ProjectID() int
}

// Standing 呼叫者與路徑上專案的關係
type Standing struct {
	ProjectID   int
	AuthorID    int
	Contributor bool
}

func (s Standing) IsAuthor(c Caller) bool {
	return s.AuthorID != 0 && s.AuthorID == c.ID
}

type collectionRule func(c Caller, a Action, s Standing) bool

type objectRule func(c Caller, a Action, s Standing, r Resource) bool

var collectionRules = map[Kind]collectionRule{
	KindProject: func(c Caller, a Action, s Standing) bool {
		// 建立與列表不依附既有專案
		if a == ActionCreate || a == ActionList {
			return true
		}
		return s.IsAuthor(c) || (a.Safe() && s.Contributor)
	},
	KindContributor: func(c Caller, a Action, s Standing) bool {
		if a.Safe() {
			return s.IsAuthor(c) || s.Contributor
		}
		return s.IsAuthor(c)
	},
	KindIssue:   nestedCollection,
	KindComment: nestedCollection,
	KindUser: func(c Caller, a Action, _ Standing) bool {
		// 非管理者的 list 在 service 層回傳空集合
		return true
	},
}

var objectRules = map[Kind]objectRule{
	KindProject: func(c Caller, a Action, s Standing, r Resource) bool {
		if r.OwnerID() == c.ID {
			return true
		}
		return a.Safe() && s.Contributor
	},
	KindContributor: func(c Caller, a Action, s Standing, r Resource) bool {
		if a.Safe() {
			return s.IsAuthor(c) || s.Contributor
		}
		return s.IsAuthor(c)
	},
	KindIssue:   nestedObject,
	KindComment: nestedObject,
	KindUser: func(c Caller, _ Action, _ Standing, r Resource) bool {
		return c.IsSuperuser || r.OwnerID() == c.ID
	},
}

// nestedCollection issue 與 comment 的集合層規則：建立與列表須為貢獻者
func nestedCollection(c Caller, a Action, s Standing) bool {
	if a == ActionCreate || a == ActionList {
		return s.Contributor
	}
	return true
}

// nestedObject 作者擁有全部權限，貢獻者只能讀
func nestedObject(c Caller, a Action, s Standing, r Resource) bool {
	if r.OwnerID() == c.ID {
		return true
	}
	return a.Safe() && s.Contributor
}

// AllowCollection 在載入目標物件之前，依路徑上的專案判斷
func AllowCollection(c Caller, a Action, k Kind, s Standing) bool {
	rule, ok := collectionRules[k]
	if !ok || c.ID == 0 {
		return false
	}
	return rule(c, a, s)
}

// AllowObject 物件載入後的判斷；資源必須屬於 Standing 所描述的專案
func AllowObject(c Caller, a Action, k Kind, s Standing, r Resource) bool {
	rule, ok := objectRules[k]
	if !ok || c.ID == 0 || r == nil {
		return false
	}
	if k != KindUser && r.ProjectID() != s.ProjectID {
		return false
	}
	return rule(c, a, s, r)
}

// Allow 兩階段都須通過
func Allow(c Caller, a Action, k Kind, s Standing, r Resource) bool {
	return AllowCollection(c, a, k, s) && AllowObject(c, a, k, s, r)
}

// CanListUsers 只有管理者看得到使用者列表
func CanListUsers(c Caller) bool {
	return c.IsSuperuser
}
