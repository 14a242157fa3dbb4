// form.go
//
// A data service and client toolkit for construction element and regulation management
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of elementdb.
// elementdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// elementdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with elementdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package controller

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/localnerve/elementdb/pkg/client"
)

// ErrValidation is returned when field validation blocks a submission; the
// specifics are in the form's Errors map.
var ErrValidation = errors.New("validation failed")

// Validation bounds. Field validation always runs before any network call.
const (
	CategoryNameMinLength        = 2
	CategoryNameMaxLength        = 100
	CategoryDescriptionMaxLength = 500
	ElementNameMinLength         = 2
	ElementDescriptionMaxLength  = 1000
)

var colorPattern = regexp.MustCompile(`^#[0-9A-F]{6}$`)

// FieldErrors maps a field name to its validation or server error message.
type FieldErrors map[string]string

// Outcome discriminates the submit result. CreatedLinksPending means the
// entity exists but some or all of its regulation links do not; the caller
// surfaces the warning without rolling the entity back.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeCreated
	OutcomeUpdated
	OutcomeCreatedLinksPending
)

// SubmitResult is the saga outcome of a form submission.
type SubmitResult struct {
	Outcome Outcome
	Element *client.Element
	Links   []client.Link
	Warning string
	Err     error
}

// CategoryForm validates and submits category create/edit flows. A non-empty
// ID means edit mode.
type CategoryForm struct {
	api *client.Client

	ID          string
	Name        string
	Description string
	Color       string
	UserID      string

	Errors FieldErrors
}

// NewCategoryForm creates an empty create-mode form.
func NewCategoryForm(api *client.Client, userID string) *CategoryForm {
	return &CategoryForm{api: api, UserID: userID, Errors: FieldErrors{}}
}

// Validate checks all fields and fills Errors. It reports whether the form
// may be submitted.
func (f *CategoryForm) Validate() bool {
	f.Errors = FieldErrors{}
	name := strings.TrimSpace(f.Name)
	switch {
	case len([]rune(name)) < CategoryNameMinLength:
		f.Errors["name"] = "Name must be at least 2 characters"
	case len([]rune(name)) > CategoryNameMaxLength:
		f.Errors["name"] = "Name must be at most 100 characters"
	}
	if len([]rune(f.Description)) > CategoryDescriptionMaxLength {
		f.Errors["description"] = "Description must be at most 500 characters"
	}
	if f.Color != "" && !colorPattern.MatchString(f.Color) {
		f.Errors["color"] = "Color must be a #RRGGBB hex value"
	}
	return len(f.Errors) == 0
}

// Submit validates and then creates or updates the category.
func (f *CategoryForm) Submit(ctx context.Context) (*client.Category, error) {
	if !f.Validate() {
		return nil, ErrValidation
	}

	name := strings.TrimSpace(f.Name)
	var description *string
	if f.Description != "" {
		d := f.Description
		description = &d
	}

	var category *client.Category
	var err error
	if f.ID == "" {
		category, err = f.api.CreateCategory(ctx, client.CategoryInput{
			Name:        name,
			UserID:      f.UserID,
			Description: description,
			Color:       f.Color,
		})
	} else {
		update := client.CategoryUpdate{Name: &name, Description: description}
		if f.Color != "" {
			color := f.Color
			update.Color = &color
		}
		category, err = f.api.UpdateCategory(ctx, f.ID, update)
	}
	if err != nil {
		f.routeServerError(err)
		return nil, err
	}
	return category, nil
}

func (f *CategoryForm) routeServerError(err error) {
	routeServerError(f.Errors, err)
}

// ElementForm validates and submits element create/edit flows, including the
// two-phase create-with-regulations saga. A non-empty ID means edit mode.
type ElementForm struct {
	api *client.Client

	ID          string
	Name        string
	Type        string
	Description string
	CategoryID  string
	UserID      string

	Slots *RegulationSlots

	Errors FieldErrors
}

// NewElementForm creates an empty create-mode form.
func NewElementForm(api *client.Client, userID string) *ElementForm {
	return &ElementForm{
		api:    api,
		UserID: userID,
		Slots:  NewRegulationSlots(),
		Errors: FieldErrors{},
	}
}

// Validate checks all fields and fills Errors. It reports whether the form
// may be submitted.
func (f *ElementForm) Validate() bool {
	f.Errors = FieldErrors{}
	if len([]rune(strings.TrimSpace(f.Name))) < ElementNameMinLength {
		f.Errors["name"] = "Name must be at least 2 characters"
	}
	if strings.TrimSpace(f.Type) == "" {
		f.Errors["type"] = "Type is required"
	}
	if len([]rune(f.Description)) > ElementDescriptionMaxLength {
		f.Errors["description"] = "Description must be at most 1000 characters"
	}
	return len(f.Errors) == 0
}

// Submit validates and then runs the create or update flow. In create mode
// with selected regulations the element creation and the batched link
// creation run as two phases: the element survives a link failure and the
// result reports OutcomeCreatedLinksPending instead of rolling back.
func (f *ElementForm) Submit(ctx context.Context) SubmitResult {
	if !f.Validate() {
		return SubmitResult{Outcome: OutcomeFailed, Err: ErrValidation}
	}

	name := strings.TrimSpace(f.Name)
	elementType := strings.TrimSpace(f.Type)
	var description *string
	if f.Description != "" {
		d := f.Description
		description = &d
	}
	var categoryID *string
	if f.CategoryID != "" {
		c := f.CategoryID
		categoryID = &c
	}

	if f.ID != "" {
		element, err := f.api.UpdateElement(ctx, f.ID, client.ElementUpdate{
			Name:        &name,
			Type:        &elementType,
			Description: description,
			CategoryID:  categoryID,
		})
		if err != nil {
			routeServerError(f.Errors, err)
			return SubmitResult{Outcome: OutcomeFailed, Err: err}
		}
		return SubmitResult{Outcome: OutcomeUpdated, Element: element}
	}

	input := client.ElementInput{
		Name:        name,
		Type:        elementType,
		UserID:      f.UserID,
		Description: description,
		CategoryID:  categoryID,
	}

	regulationIDs := f.Slots.Union()
	if len(regulationIDs) == 0 {
		element, err := f.api.CreateElement(ctx, input)
		if err != nil {
			routeServerError(f.Errors, err)
			return SubmitResult{Outcome: OutcomeFailed, Err: err}
		}
		return SubmitResult{Outcome: OutcomeCreated, Element: element}
	}

	result, err := f.api.CreateElementWithRegulations(ctx, input, regulationIDs)
	if err != nil {
		routeServerError(f.Errors, err)
		return SubmitResult{Outcome: OutcomeFailed, Err: err}
	}
	if result.Warning != "" {
		return SubmitResult{
			Outcome: OutcomeCreatedLinksPending,
			Element: result.Element,
			Links:   result.RegulationLinks,
			Warning: result.Warning,
		}
	}
	return SubmitResult{
		Outcome: OutcomeCreated,
		Element: result.Element,
		Links:   result.RegulationLinks,
	}
}

// routeServerError pattern-matches a server message into a field error slot.
// A fragile heuristic, kept because the API reports validation failures as
// free text.
func routeServerError(errors FieldErrors, err error) {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "name"):
		errors["name"] = msg
	case strings.Contains(lower, "type"):
		errors["type"] = msg
	case strings.Contains(lower, "description"):
		errors["description"] = msg
	default:
		errors["general"] = msg
	}
}

// RegulationSlots is a set of independent regulation search slots. The
// submit payload is the id-deduplicated union across all slots; removing a
// slot prunes its contribution.
type RegulationSlots struct {
	nextID int
	slots  []slot
}

type slot struct {
	id     int
	search *RegulationSearch
}

// NewRegulationSlots creates an empty slot set.
func NewRegulationSlots() *RegulationSlots {
	return &RegulationSlots{nextID: 1}
}

// Add appends a new slot holding the given search and returns its slot id.
func (s *RegulationSlots) Add(search *RegulationSearch) int {
	id := s.nextID
	s.nextID++
	s.slots = append(s.slots, slot{id: id, search: search})
	return id
}

// Remove deletes a slot; its selections no longer contribute to the union.
func (s *RegulationSlots) Remove(id int) bool {
	for i := range s.slots {
		if s.slots[i].id == id {
			s.slots = append(s.slots[:i], s.slots[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the search held by a slot id.
func (s *RegulationSlots) Get(id int) *RegulationSearch {
	for i := range s.slots {
		if s.slots[i].id == id {
			return s.slots[i].search
		}
	}
	return nil
}

// Len returns the number of slots.
func (s *RegulationSlots) Len() int {
	return len(s.slots)
}

// Union flattens all slot selections into one deduplicated id list,
// preserving first-seen order.
func (s *RegulationSlots) Union() []int64 {
	seen := map[int64]bool{}
	var ids []int64
	for _, sl := range s.slots {
		for _, id := range sl.search.SelectedIDs() {
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
