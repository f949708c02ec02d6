package models

// ReactionType is a user's single emotional response to a post
type ReactionType string

// Reaction type constants
const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionLaugh ReactionType = "laugh"
	ReactionWow   ReactionType = "wow"
	ReactionSad   ReactionType = "sad"
	ReactionAngry ReactionType = "angry"
)

// ReactionTypes lists every valid reaction type in display order
var ReactionTypes = []ReactionType{
	ReactionLike,
	ReactionLove,
	ReactionLaugh,
	ReactionWow,
	ReactionSad,
	ReactionAngry,
}

// Valid reports whether t is a member of the closed reaction set
func (t ReactionType) Valid() bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionLaugh, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}

// VoteType is a user's single up/down judgment on a comment
type VoteType string

// Vote type constants
const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

// Valid reports whether t is a member of the closed vote set
func (t VoteType) Valid() bool {
	return t == VoteUp || t == VoteDown
}

// NotificationType classifies a notification
type NotificationType string

// Notification type constants
const (
	NotifyMention NotificationType = "mention"
	NotifyLike    NotificationType = "like"
	NotifyComment NotificationType = "comment"
	NotifyReply   NotificationType = "reply"
)

// Valid reports whether t is a member of the closed notification set
func (t NotificationType) Valid() bool {
	switch t {
	case NotifyMention, NotifyLike, NotifyComment, NotifyReply:
		return true
	}
	return false
}

// SubscriptionType selects what a subscription targets
type SubscriptionType string

// Subscription type constants
const (
	SubscribeAuthor   SubscriptionType = "author"
	SubscribeCategory SubscriptionType = "category"
)

// Valid reports whether t is a member of the closed subscription set
func (t SubscriptionType) Valid() bool {
	return t == SubscribeAuthor || t == SubscribeCategory
}
