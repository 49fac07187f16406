package socialcore

import "context"

// SendFriendRequest records a pending request from the requester on the
// target's account. The pair must not already be friends and at most one
// pending request may exist between them in either direction.
func (e *Engine) SendFriendRequest(ctx context.Context, requesterID, targetID int) error {
	if e == nil || !e.ready {
		return ErrEngineNotReady
	}
	if requesterID == targetID {
		return ErrSelfFriendRequest
	}

	requester, err := e.users.GetUserByID(ctx, requesterID)
	if err != nil {
		return err
	}
	target, err := e.users.GetUserByID(ctx, targetID)
	if err != nil {
		return err
	}

	if hasFriend(target.Friends, requesterID) {
		return ErrAlreadyFriends
	}
	if hasRequestFrom(target.FriendRequests, requesterID) ||
		hasRequestFrom(requester.FriendRequests, targetID) {
		return ErrFriendRequestExists
	}

	target.FriendRequests = append(target.FriendRequests, FriendRequest{
		RequesterID:    requester.ID,
		FullName:       requester.FullName,
		ProfilePicture: requester.ProfilePicture,
	})

	if err := e.users.UpdateAccounts(ctx, target); err != nil {
		return err
	}

	e.metrics.Inc(MetricFriendRequestSent)
	e.emitAudit(ctx, AuditFriendRequestSent, requester.UserName, requester.ID, clientIPFromContext(ctx), true, nil)
	return nil
}

// AcceptFriendRequest converts a pending request into a friendship. The
// request is consumed and a mirrored Friend entry is written to both
// accounts in one atomic provider call, so a crash can never leave the
// friendship half-established or the request acceptable twice.
func (e *Engine) AcceptFriendRequest(ctx context.Context, accepterID, requesterID int) error {
	if e == nil || !e.ready {
		return ErrEngineNotReady
	}

	accepter, err := e.users.GetUserByID(ctx, accepterID)
	if err != nil {
		return err
	}
	requester, err := e.users.GetUserByID(ctx, requesterID)
	if err != nil {
		return err
	}

	remaining, found := removeRequestFrom(accepter.FriendRequests, requesterID)
	if !found {
		return ErrFriendRequestInvalid
	}
	accepter.FriendRequests = remaining

	accepter.Friends = append(accepter.Friends, Friend{
		ID:             requester.ID,
		FullName:       requester.FullName,
		ProfilePicture: requester.ProfilePicture,
	})
	requester.Friends = append(requester.Friends, Friend{
		ID:             accepter.ID,
		FullName:       accepter.FullName,
		ProfilePicture: accepter.ProfilePicture,
	})

	if err := e.users.UpdateAccounts(ctx, accepter, requester); err != nil {
		return err
	}

	e.metrics.Inc(MetricFriendshipAccepted)
	e.emitAudit(ctx, AuditFriendshipAccepted, accepter.UserName, accepter.ID, clientIPFromContext(ctx), true, nil)
	return nil
}

// RemoveFriendRequest discards a pending request without creating a
// friendship.
func (e *Engine) RemoveFriendRequest(ctx context.Context, ownerID, requesterID int) error {
	if e == nil || !e.ready {
		return ErrEngineNotReady
	}

	owner, err := e.users.GetUserByID(ctx, ownerID)
	if err != nil {
		return err
	}

	remaining, found := removeRequestFrom(owner.FriendRequests, requesterID)
	if !found {
		return ErrFriendRequestNotFound
	}
	owner.FriendRequests = remaining

	return e.users.UpdateAccounts(ctx, owner)
}

// RemoveFriend dissolves a friendship from both sides in one atomic
// provider call. Removing from only one account would corrupt the
// mirrored graph, so partial removal is never persisted.
func (e *Engine) RemoveFriend(ctx context.Context, ownerID, friendID int) error {
	if e == nil || !e.ready {
		return ErrEngineNotReady
	}

	owner, err := e.users.GetUserByID(ctx, ownerID)
	if err != nil {
		return err
	}
	friend, err := e.users.GetUserByID(ctx, friendID)
	if err != nil {
		return err
	}

	ownerSide, found := removeFriendEntry(owner.Friends, friendID)
	if !found {
		return ErrFriendNotFound
	}
	friendSide, _ := removeFriendEntry(friend.Friends, ownerID)

	owner.Friends = ownerSide
	friend.Friends = friendSide

	if err := e.users.UpdateAccounts(ctx, owner, friend); err != nil {
		return err
	}

	e.metrics.Inc(MetricFriendshipRemoved)
	e.emitAudit(ctx, AuditFriendshipRemoved, owner.UserName, owner.ID, clientIPFromContext(ctx), true, nil)
	return nil
}

// Friends returns an account's friend list. An empty list is reported as
// ErrNoFriends rather than a nil slice.
func (e *Engine) Friends(ctx context.Context, ownerID int) ([]Friend, error) {
	if e == nil || !e.ready {
		return nil, ErrEngineNotReady
	}

	owner, err := e.users.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(owner.Friends) == 0 {
		return nil, ErrNoFriends
	}

	out := make([]Friend, len(owner.Friends))
	copy(out, owner.Friends)
	return out, nil
}

// PendingRequests returns the requests waiting on an account. An empty
// list is reported as ErrNoPendingRequests.
func (e *Engine) PendingRequests(ctx context.Context, ownerID int) ([]FriendRequest, error) {
	if e == nil || !e.ready {
		return nil, ErrEngineNotReady
	}

	owner, err := e.users.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(owner.FriendRequests) == 0 {
		return nil, ErrNoPendingRequests
	}

	out := make([]FriendRequest, len(owner.FriendRequests))
	copy(out, owner.FriendRequests)
	return out, nil
}

func hasFriend(friends []Friend, id int) bool {
	for _, f := range friends {
		if f.ID == id {
			return true
		}
	}
	return false
}

func hasRequestFrom(requests []FriendRequest, requesterID int) bool {
	for _, r := range requests {
		if r.RequesterID == requesterID {
			return true
		}
	}
	return false
}

func removeRequestFrom(requests []FriendRequest, requesterID int) ([]FriendRequest, bool) {
	out := make([]FriendRequest, 0, len(requests))
	found := false
	for _, r := range requests {
		if r.RequesterID == requesterID {
			found = true
			continue
		}
		out = append(out, r)
	}
	return out, found
}

func removeFriendEntry(friends []Friend, id int) ([]Friend, bool) {
	out := make([]Friend, 0, len(friends))
	found := false
	for _, f := range friends {
		if f.ID == id {
			found = true
			continue
		}
		out = append(out, f)
	}
	return out, found
}
