package http

import (
	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/pkg/freshsdk"
)

// Conversions from domain records to the client-facing SDK shapes. Password
// hashes, session key hashes and pending grant hashes never leave here.

func toUserInfo(u domain.User) freshsdk.UserInfo {
	return freshsdk.UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Verified: u.Verify == nil,
		IsActive: u.IsActive,
		Roles: freshsdk.RolesInfo{
			Admin:   toRoleLinkInfo(u.Roles.Admin),
			Account: toRoleLinkInfo(u.Roles.Account),
		},
		CreatedAt: u.CreatedAt,
	}
}

func toRoleLinkInfo(link *domain.RoleLink) *freshsdk.RoleLinkInfo {
	if link == nil {
		return nil
	}
	return &freshsdk.RoleLinkInfo{ID: link.ID, Name: link.Name}
}

func toUserLinkInfo(link *domain.UserLink) *freshsdk.UserLinkInfo {
	if link == nil {
		return nil
	}
	return &freshsdk.UserLinkInfo{ID: link.ID, Username: link.Username}
}

func toSessionInfo(s domain.Session) freshsdk.SessionInfo {
	return freshsdk.SessionInfo{
		ID:         s.ID,
		IP:         s.IP,
		UserAgent:  s.UserAgent,
		CreatedAt:  s.CreatedAt,
		LastActive: s.LastActive,
	}
}

func toAuthResponse(result service.LoginResult) freshsdk.AuthResponse {
	return freshsdk.AuthResponse{
		Token: result.Token,
		Session: freshsdk.SessionCredentials{
			ID:  result.Session.ID,
			Key: result.Session.Key,
		},
		User: toUserInfo(result.User),
	}
}

func toAdminInfo(a domain.Admin) freshsdk.AdminInfo {
	groups := make([]freshsdk.GroupMembershipInfo, len(a.Groups))
	for i, g := range a.Groups {
		groups[i] = freshsdk.GroupMembershipInfo{ID: g.GroupID, Name: g.Name}
	}
	return freshsdk.AdminInfo{
		ID:          a.ID,
		Name:        a.FullName(),
		User:        toUserLinkInfo(a.User),
		Groups:      groups,
		Permissions: a.Permissions,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toGroupInfo(g domain.AdminGroup) freshsdk.GroupInfo {
	return freshsdk.GroupInfo{
		ID:          g.ID,
		Name:        g.Name,
		Permissions: g.Permissions,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func toAccountInfo(a domain.Account) freshsdk.AccountInfo {
	return freshsdk.AccountInfo{
		ID:        a.ID,
		Name:      a.FullName(),
		User:      toUserLinkInfo(a.User),
		Status:    toStatusEntryInfo(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toStatusEntryInfo(e *domain.StatusEntry) *freshsdk.StatusEntryInfo {
	if e == nil {
		return nil
	}
	return &freshsdk.StatusEntryInfo{
		ID:        e.ID,
		StatusID:  e.StatusID,
		Name:      e.Name,
		AdminID:   e.AdminID,
		AdminName: e.AdminName,
		CreatedAt: e.CreatedAt,
	}
}

func toNoteInfo(n domain.NoteEntry) freshsdk.NoteInfo {
	return freshsdk.NoteInfo{
		ID:        n.ID,
		Data:      n.Data,
		AdminID:   n.AdminID,
		AdminName: n.AdminName,
		CreatedAt: n.CreatedAt,
	}
}

func toStatusInfo(s domain.Status) freshsdk.StatusInfo {
	return freshsdk.StatusInfo{
		ID:        s.ID,
		Pivot:     s.Pivot,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
