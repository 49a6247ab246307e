// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

/*
Package campaign manages brand marketing campaigns.

Campaigns are created as drafts and move through a one-way lifecycle
(draft, active, completed). Only the owning account may mutate a campaign.
*/
package campaign

import "time"

// # Lifecycle

// Campaign status values. Transitions are one-way: draft to active,
// active to completed.
const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// # Domain Entities

// Campaign is one marketing campaign owned by a brand account.
type Campaign struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsDraft reports whether the campaign can still be activated.
func (c *Campaign) IsDraft() bool {
	return c.Status == StatusDraft
}

// # Field Identifiers

// Global field names for validation in the campaign domain.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldCampaign    = "campaign"
	FieldCampaigns   = "campaigns"
	FieldPagination  = "pagination"
)

// # Value Constraints

const (
	maxNameLength        = 150
	maxDescriptionLength = 2000
)
