// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package stockcover

import (
	"errors"
	"fmt"
	"strings"
)

// Category classifies a fatal run failure so callers can show
// source-specific guidance.
type Category string

const (
	CategoryUnknown    Category = ""
	CategoryInput      Category = "input"
	CategoryCurveEmpty Category = "curve_empty"
	CategoryStockEmpty Category = "stock_empty"
	CategoryJoinEmpty  Category = "join_empty"
)

// Hint returns remediation advice for the category.
func (c Category) Hint() string {
	switch c {
	case CategoryCurveEmpty:
		return "The ABC curve report must contain numeric product codes with a description " +
			"and a consumption quantity; check that it is the ABC curve export of the ERP."
	case CategoryStockEmpty:
		return "The stock report must contain numeric product codes, descriptions and quantities; " +
			"check that the file is an Excel export and is not password protected."
	case CategoryJoinEmpty:
		return "No product code is shared by the ABC curve and the stock report; " +
			"check that both exports come from the same warehouse."
	case CategoryInput:
		return "The file could not be read; upload an .xlsx or .csv export."
	default:
		return ""
	}
}

// Error is a fatal failure of an analysis run.
type Error struct {
	Err      error
	Category Category
	// Source names the offending input ("curve", "stock" or a file name).
	Source  string
	Message string
}

// NewError returns an *Error for the given category.
func NewError(cat Category, source, message string) *Error {
	return &Error{Category: cat, Source: source, Message: message}
}

// WrapError returns an *Error wrapping err.
func WrapError(cat Category, source string, err error) *Error {
	return &Error{Category: cat, Source: source, Err: err}
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Source == "" {
		return fmt.Sprintf("%s: %s", e.Category, msg)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Category, e.Source, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// CategoryOf returns the Category of err.
//
// Errors not carrying an *Error are categorized by their text: a mention
// of the stock report yields CategoryStockEmpty, a mention of the ABC
// curve yields CategoryCurveEmpty.
func CategoryOf(err error) Category {
	if err == nil {
		return CategoryUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "stock"):
		return CategoryStockEmpty
	case strings.Contains(msg, "abc"), strings.Contains(msg, "curva"), strings.Contains(msg, "curve"):
		return CategoryCurveEmpty
	}
	return CategoryUnknown
}
