package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roomie/internal/middleware"
)

// Read-view key formats. A key identifies one cacheable query result.
const (
	feedKeyFormat        = "view:feed"
	authorKeyFormat      = "view:author:%s"
	contentTypeKeyFormat = "view:ctype:%s"
	postKeyFormat        = "view:post:%s"
	roomHubKeyFormat     = "view:rooms"
	roomKeyFormat        = "view:room:%s"
	profileKeyFormat     = "view:profile:%s"
	sessionUserKeyFormat = "session:user:%s"
)

// TTLs bound the staleness window of views that no mutation invalidates
// (a view outside a mutation's enumeration refreshes on expiry).
const (
	FeedTTL        = 2 * time.Minute
	AuthorListTTL  = 2 * time.Minute
	ContentTypeTTL = 2 * time.Minute
	PostTTL        = 30 * time.Minute
	RoomHubTTL     = 2 * time.Minute
	RoomTTL        = 5 * time.Minute
	ProfileTTL     = 5 * time.Minute
	SessionUserTTL = 5 * time.Minute
)

// FeedKey is the key of the global feed view.
func FeedKey() string {
	return feedKeyFormat
}

// AuthorPostsKey is the key of an author's post-list view.
func AuthorPostsKey(authorID string) string {
	return fmt.Sprintf(authorKeyFormat, authorID)
}

// ContentTypeKey is the key of a content-type-filtered feed view.
func ContentTypeKey(contentType string) string {
	return fmt.Sprintf(contentTypeKeyFormat, contentType)
}

// PostKey is the key of a single post-by-id view (the joined
// post-with-author shape).
func PostKey(postID string) string {
	return fmt.Sprintf(postKeyFormat, postID)
}

// RoomHubKey is the key of the all-rooms hub view.
func RoomHubKey() string {
	return roomHubKeyFormat
}

// RoomKey is the key of an owner's personal-room view.
func RoomKey(ownerID string) string {
	return fmt.Sprintf(roomKeyFormat, ownerID)
}

// ProfileKey is the key of a public profile view. Keyed by username, which
// is immutable, so the key never migrates.
func ProfileKey(username string) string {
	return fmt.Sprintf(profileKeyFormat, username)
}

// SessionUserKey is the key of the cached current-user payload of a session.
func SessionUserKey(userID string) string {
	return fmt.Sprintf(sessionUserKeyFormat, userID)
}

// Invalidate drops a single view key. Best-effort: a missing client means
// nothing was cached in the first place.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
		middleware.CacheInvalidations.WithLabelValues(viewLabel(key)).Inc()
	}
}

// InvalidatePostLists drops the list views a post mutation touches: the
// global feed, the author's post list, and the content-type-filtered view.
// This is the exact invalidation set of CreatePost.
func InvalidatePostLists(ctx context.Context, authorID, contentType string) {
	Invalidate(ctx, FeedKey())
	Invalidate(ctx, AuthorPostsKey(authorID))
	Invalidate(ctx, ContentTypeKey(contentType))
}

// InvalidatePost drops the list views plus the post's own by-id view.
// This is the exact invalidation set of UpdatePost and DeletePost.
func InvalidatePost(ctx context.Context, postID, authorID, contentType string) {
	InvalidatePostLists(ctx, authorID, contentType)
	Invalidate(ctx, PostKey(postID))
}

// InvalidateRoom drops the hub view plus the owner's personal-room view.
// This is the exact invalidation set of every room mutation.
func InvalidateRoom(ctx context.Context, ownerID string) {
	Invalidate(ctx, RoomHubKey())
	Invalidate(ctx, RoomKey(ownerID))
}

// InvalidateUser drops the public profile view and the session-bound
// current-user payload. This is the exact invalidation set of profile
// updates, password changes, and login/logout/register.
func InvalidateUser(ctx context.Context, userID, username string) {
	Invalidate(ctx, ProfileKey(username))
	Invalidate(ctx, SessionUserKey(userID))
}

// viewLabel collapses per-entity keys to a bounded metric label.
func viewLabel(key string) string {
	if key == feedKeyFormat || key == roomHubKeyFormat {
		return key
	}
	if i := strings.LastIndex(key, ":"); i > 0 {
		return key[:i]
	}
	return key
}
