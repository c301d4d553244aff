package enums

import "fmt"

// ContactStatus tracks a support inquiry through triage.
type ContactStatus string

const (
	ContactStatusNew        ContactStatus = "new"
	ContactStatusInProgress ContactStatus = "in_progress"
	ContactStatusResolved   ContactStatus = "resolved"
	ContactStatusClosed     ContactStatus = "closed"
)

var validContactStatuses = []ContactStatus{
	ContactStatusNew,
	ContactStatusInProgress,
	ContactStatusResolved,
	ContactStatusClosed,
}

// String implements fmt.Stringer.
func (s ContactStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ContactStatus.
func (s ContactStatus) IsValid() bool {
	for _, candidate := range validContactStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseContactStatus converts raw input into a ContactStatus.
func ParseContactStatus(value string) (ContactStatus, error) {
	for _, candidate := range validContactStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contact status %q", value)
}

// ContactPriority orders inquiries for the support queue.
type ContactPriority string

const (
	ContactPriorityLow    ContactPriority = "low"
	ContactPriorityMedium ContactPriority = "medium"
	ContactPriorityHigh   ContactPriority = "high"
	ContactPriorityUrgent ContactPriority = "urgent"
)

var validContactPriorities = []ContactPriority{
	ContactPriorityLow,
	ContactPriorityMedium,
	ContactPriorityHigh,
	ContactPriorityUrgent,
}

// String implements fmt.Stringer.
func (p ContactPriority) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ContactPriority.
func (p ContactPriority) IsValid() bool {
	for _, candidate := range validContactPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseContactPriority converts raw input into a ContactPriority.
func ParseContactPriority(value string) (ContactPriority, error) {
	for _, candidate := range validContactPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contact priority %q", value)
}

// ContactCategory buckets inquiries by topic.
type ContactCategory string

const (
	ContactCategoryGeneral  ContactCategory = "general"
	ContactCategoryOrder    ContactCategory = "order"
	ContactCategoryListing  ContactCategory = "listing"
	ContactCategoryAccount  ContactCategory = "account"
	ContactCategoryFeedback ContactCategory = "feedback"
)

var validContactCategories = []ContactCategory{
	ContactCategoryGeneral,
	ContactCategoryOrder,
	ContactCategoryListing,
	ContactCategoryAccount,
	ContactCategoryFeedback,
}

// String implements fmt.Stringer.
func (c ContactCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContactCategory.
func (c ContactCategory) IsValid() bool {
	for _, candidate := range validContactCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContactCategory converts raw input into a ContactCategory.
func ParseContactCategory(value string) (ContactCategory, error) {
	for _, candidate := range validContactCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contact category %q", value)
}
