// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package sorting

import (
	"strings"
)

// Direction is a sort direction token.
type Direction string

// Valid directions.
const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection normalizes a direction token. Tokens are matched
// case-insensitively after trimming; anything else, including the empty
// string, returns a *DirectionError.
func ParseDirection(token string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case string(Asc):
		return Asc, nil
	case string(Desc):
		return Desc, nil
	default:
		return "", &DirectionError{Token: token}
	}
}

// Valid reports whether d is a recognized direction token.
func (d Direction) Valid() bool {
	_, err := ParseDirection(string(d))
	return err == nil
}

// Order is one (field, direction) pair of a sort clause.
type Order struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Clause is an ordered list of sort pairs. The zero value means no sort.
type Clause []Order

// ParseClause reads the query-string sort syntax "name:asc,price:desc".
// A missing direction means ASC and blank segments are skipped. Direction
// tokens are kept verbatim so a malformed one reaches the validator.
func ParseClause(raw string) Clause {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	clause := make(Clause, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		field, dir, found := strings.Cut(part, ":")
		order := Order{Field: strings.TrimSpace(field), Direction: Asc}
		if found {
			order.Direction = Direction(strings.TrimSpace(dir))
		}
		clause = append(clause, order)
	}

	if len(clause) == 0 {
		return nil
	}
	return clause
}

// String renders the clause in query-string syntax.
func (c Clause) String() string {
	if len(c) == 0 {
		return ""
	}

	var b strings.Builder
	for i, o := range c {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(o.Field)
		b.WriteByte(':')
		b.WriteString(strings.ToLower(string(o.Direction)))
	}
	return b.String()
}

// Fields returns the field names in clause order.
func (c Clause) Fields() []string {
	fields := make([]string, len(c))
	for i, o := range c {
		fields[i] = o.Field
	}
	return fields
}
