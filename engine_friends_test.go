package socialcore

import (
	"context"
	"errors"
	"testing"
)

func seedPair(t *testing.T) (*Engine, *Account, *Account) {
	t.Helper()

	provider := newMockUserProvider()
	engine := newTestEngine(t, provider)

	alice := registerUser(t, engine, "Alice Andersen", "alice", "pass123")
	bob := registerUser(t, engine, "Bob Berg", "bob", "pass123")

	return engine, alice, bob
}

func TestSendFriendRequestStoresPending(t *testing.T) {
	engine, alice, bob := seedPair(t)
	ctx := context.Background()

	if err := engine.SendFriendRequest(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("SendFriendRequest failed: %v", err)
	}

	pending, err := engine.PendingRequests(ctx, bob.ID)
	if err != nil {
		t.Fatalf("PendingRequests failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one pending request, got %d", len(pending))
	}
	if pending[0].RequesterID != alice.ID || pending[0].FullName != "Alice Andersen" {
		t.Fatalf("unexpected request: %+v", pending[0])
	}

	// The requester's own queue stays empty.
	if _, err := engine.PendingRequests(ctx, alice.ID); !errors.Is(err, ErrNoPendingRequests) {
		t.Fatalf("expected requester queue empty, got %v", err)
	}
}

func TestSelfFriendRequestRejected(t *testing.T) {
	engine, alice, _ := seedPair(t)

	if err := engine.SendFriendRequest(context.Background(), alice.ID, alice.ID); !errors.Is(err, ErrSelfFriendRequest) {
		t.Fatalf("expected ErrSelfFriendRequest, got %v", err)
	}
}

func TestDuplicateFriendRequestRejected(t *testing.T) {
	engine, alice, bob := seedPair(t)
	ctx := context.Background()

	if err := engine.SendFriendRequest(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("SendFriendRequest failed: %v", err)
	}

	if err := engine.SendFriendRequest(ctx, alice.ID, bob.ID); !errors.Is(err, ErrFriendRequestExists) {
		t.Fatalf("expected repeat request rejected, got %v", err)
	}
	// The reverse direction counts as the same pending pair.
	if err := engine.SendFriendRequest(ctx, bob.ID, alice.ID); !errors.Is(err, ErrFriendRequestExists) {
		t.Fatalf("expected reverse request rejected, got %v", err)
	}
}

func TestSendFriendRequestUnknownTarget(t *testing.T) {
	engine, alice, _ := seedPair(t)

	if err := engine.SendFriendRequest(context.Background(), alice.ID, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAcceptMirrorsFriendshipExactlyOnce(t *testing.T) {
	engine, alice, bob := seedPair(t)
	ctx := context.Background()

	if err := engine.SendFriendRequest(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("SendFriendRequest failed: %v", err)
	}
	if err := engine.AcceptFriendRequest(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("AcceptFriendRequest failed: %v", err)
	}

	bobFriends, err := engine.Friends(ctx, bob.ID)
	if err != nil {
		t.Fatalf("Friends failed: %v", err)
	}
	aliceFriends, err := engine.Friends(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Friends failed: %v", err)
	}
	if len(bobFriends) != 1 || bobFriends[0].ID != alice.ID {
		t.Fatalf("expected bob to have alice, got %+v", bobFriends)
	}
	if len(aliceFriends) != 1 || aliceFriends[0].ID != bob.ID {
		t.Fatalf("expected alice to have bob, got %+v", aliceFriends)
	}

	// The request was consumed.
	if _, err := engine.PendingRequests(ctx, bob.ID); !errors.Is(err, ErrNoPendingRequests) {
		t.Fatalf("expected request consumed, got %v", err)
	}

	// Accepting again cannot duplicate the friendship.
	if err := engine.AcceptFriendRequest(ctx, bob.ID, alice.ID); !errors.Is(err, ErrFriendRequestInvalid) {
		t.Fatalf("expected second accept rejected, got %v", err)
	}
	bobFriends, _ = engine.Friends(ctx, bob.ID)
	if len(bobFriends) != 1 {
		t.Fatalf("expected exactly one friend entry, got %d", len(bobFriends))
	}
}

func TestAcceptWithoutRequestRejected(t *testing.T) {
	engine, alice, bob := seedPair(t)

	if err := engine.AcceptFriendRequest(context.Background(), bob.ID, alice.ID); !errors.Is(err, ErrFriendRequestInvalid) {
		t.Fatalf("expected ErrFriendRequestInvalid, got %v", err)
	}
}

func TestRequestToExistingFriendRejected(t *testing.T) {
	engine, alice, bob := seedPair(t)
	ctx := context.Background()

	if err := engine.SendFriendRequest(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("SendFriendRequest failed: %v", err)
	}
	if err := engine.AcceptFriendRequest(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("AcceptFriendRequest failed: %v", err)
	}

	if err := engine.SendFriendRequest(ctx, alice.ID, bob.ID); !errors.Is(err, ErrAlreadyFriends) {
		t.Fatalf("expected ErrAlreadyFriends, got %v", err)
	}
}

func TestRemoveFriendRequestDiscards(t *testing.T) {
	engine, alice, bob := seedPair(t)
	ctx := context.Background()

	if err := engine.SendFriendRequest(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("SendFriendRequest failed: %v", err)
	}
	if err := engine.RemoveFriendRequest(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("RemoveFriendRequest failed: %v", err)
	}

	if _, err := engine.PendingRequests(ctx, bob.ID); !errors.Is(err, ErrNoPendingRequests) {
		t.Fatalf("expected request gone, got %v", err)
	}
	// No friendship was created.
	if _, err := engine.Friends(ctx, bob.ID); !errors.Is(err, ErrNoFriends) {
		t.Fatalf("expected no friendship, got %v", err)
	}

	if err := engine.RemoveFriendRequest(ctx, bob.ID, alice.ID); !errors.Is(err, ErrFriendRequestNotFound) {
		t.Fatalf("expected ErrFriendRequestNotFound, got %v", err)
	}
}

func TestRemoveFriendIsSymmetric(t *testing.T) {
	engine, alice, bob := seedPair(t)
	ctx := context.Background()

	if err := engine.SendFriendRequest(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("SendFriendRequest failed: %v", err)
	}
	if err := engine.AcceptFriendRequest(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("AcceptFriendRequest failed: %v", err)
	}

	if err := engine.RemoveFriend(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("RemoveFriend failed: %v", err)
	}

	// Both sides are gone in one operation.
	if _, err := engine.Friends(ctx, alice.ID); !errors.Is(err, ErrNoFriends) {
		t.Fatalf("expected alice's list empty, got %v", err)
	}
	if _, err := engine.Friends(ctx, bob.ID); !errors.Is(err, ErrNoFriends) {
		t.Fatalf("expected bob's list empty, got %v", err)
	}

	if err := engine.RemoveFriend(ctx, alice.ID, bob.ID); !errors.Is(err, ErrFriendNotFound) {
		t.Fatalf("expected ErrFriendNotFound, got %v", err)
	}
}

func TestEmptyListsReadAsNotFound(t *testing.T) {
	engine, alice, _ := seedPair(t)
	ctx := context.Background()

	if _, err := engine.Friends(ctx, alice.ID); !errors.Is(err, ErrNoFriends) {
		t.Fatalf("expected ErrNoFriends, got %v", err)
	}
	if _, err := engine.PendingRequests(ctx, alice.ID); !errors.Is(err, ErrNoPendingRequests) {
		t.Fatalf("expected ErrNoPendingRequests, got %v", err)
	}

	if Classify(ErrNoFriends) != ClassNotFound || Classify(ErrNoPendingRequests) != ClassNotFound {
		t.Fatal("expected empty-list errors to classify as not found")
	}
}

func TestFriendOpsUnknownAccount(t *testing.T) {
	engine, _, _ := seedPair(t)
	ctx := context.Background()

	if _, err := engine.Friends(ctx, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := engine.PendingRequests(ctx, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
