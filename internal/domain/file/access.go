package file

import (
	"time"

	"file-share-api/internal/domain/user"
)

// LinkPolicy decides whether holding a live share token is enough on its own.
type LinkPolicy string

const (
	// LinkPolicyMember requires the holder to be the owner or a shared user.
	LinkPolicyMember LinkPolicy = "member"
	// LinkPolicyBearer lets any holder of a live token in, even anonymous ones.
	LinkPolicyBearer LinkPolicy = "bearer"
)

type Policy struct {
	Link              LinkPolicy
	AllowSharedDelete bool
}

func DefaultPolicy() Policy { return Policy{Link: LinkPolicyMember} }

type Reason string

const (
	ReasonOwner       Reason = "owner"
	ReasonSharedWith  Reason = "shared_with"
	ReasonShareLink   Reason = "share_link"
	ReasonNoFile      Reason = "no_file"
	ReasonNoGrant     Reason = "no_grant"
	ReasonLinkInvalid Reason = "link_invalid"
	ReasonAnonymous   Reason = "anonymous"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow(r Reason) Decision { return Decision{Allowed: true, Reason: r} }
func deny(r Reason) Decision  { return Decision{Allowed: false, Reason: r} }

// CanAccess evaluates, in order: owner, standing grant, live share token.
// A nil requester is anonymous. It never fails: the answer is always ALLOW or DENY.
func CanAccess(f *File, requester *user.UUID, token string, now time.Time, p Policy) Decision {
	if f == nil {
		return deny(ReasonNoFile)
	}
	if requester != nil {
		if f.IsOwner(*requester) {
			return allow(ReasonOwner)
		}
		if f.IsSharedWith(*requester) {
			return allow(ReasonSharedWith)
		}
	}
	if token == "" {
		if requester == nil {
			return deny(ReasonAnonymous)
		}
		return deny(ReasonNoGrant)
	}
	if _, ok := f.LiveLink(token, now); !ok {
		return deny(ReasonLinkInvalid)
	}
	// owner and shared users already returned above, so only bearers remain
	if p.Link == LinkPolicyBearer {
		return allow(ReasonShareLink)
	}
	if requester == nil {
		return deny(ReasonAnonymous)
	}
	return deny(ReasonNoGrant)
}

func CanView(f *File, requester *user.UUID, token string, now time.Time, p Policy) Decision {
	return CanAccess(f, requester, token, now, p)
}

func CanDownload(f *File, requester *user.UUID, token string, now time.Time, p Policy) Decision {
	return CanAccess(f, requester, token, now, p)
}

// CanDelete is owner-only unless the policy lets shared users delete too.
// Tokens never authorise a delete.
func CanDelete(f *File, requester *user.UUID, p Policy) Decision {
	if f == nil {
		return deny(ReasonNoFile)
	}
	if requester == nil {
		return deny(ReasonAnonymous)
	}
	if f.IsOwner(*requester) {
		return allow(ReasonOwner)
	}
	if p.AllowSharedDelete && f.IsSharedWith(*requester) {
		return allow(ReasonSharedWith)
	}
	return deny(ReasonNoGrant)
}

// CanUseLink is the check behind the share-link route. The token must be live
// before anything else is considered, so an expired link is refused even to
// the owner. Under LinkPolicyMember the holder must also be the owner or a
// shared user.
func CanUseLink(f *File, requester *user.UUID, token string, now time.Time, p Policy) Decision {
	if f == nil {
		return deny(ReasonNoFile)
	}
	if _, ok := f.LiveLink(token, now); !ok {
		return deny(ReasonLinkInvalid)
	}
	if p.Link == LinkPolicyBearer {
		return allow(ReasonShareLink)
	}
	if requester == nil {
		return deny(ReasonAnonymous)
	}
	if f.IsOwner(*requester) || f.IsSharedWith(*requester) {
		return allow(ReasonShareLink)
	}
	return deny(ReasonNoGrant)
}
