// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookmark_Validate(t *testing.T) {
	valid := Bookmark{
		Name:            "harbors",
		URL:             "https://geo.example.com/layers/harbors",
		RefreshInterval: 30 * time.Second,
	}

	tests := []struct {
		name    string
		mutate  func(b *Bookmark)
		wantErr error
	}{
		{name: "Valid", mutate: func(*Bookmark) {}},
		{name: "ZeroIntervalDisablesRefresh", mutate: func(b *Bookmark) { b.RefreshInterval = 0 }},
		{name: "UppercaseSchemeAccepted", mutate: func(b *Bookmark) { b.URL = "HTTPS://geo.example.com/x" }},
		{name: "MinInterval", mutate: func(b *Bookmark) { b.RefreshInterval = MinRefreshInterval }},
		{name: "MaxInterval", mutate: func(b *Bookmark) { b.RefreshInterval = MaxRefreshInterval }},

		{name: "EmptyName", mutate: func(b *Bookmark) { b.Name = "" }, wantErr: ErrBookmarkName},
		{name: "BlankName", mutate: func(b *Bookmark) { b.Name = "   " }, wantErr: ErrBookmarkName},
		{name: "PlainHTTP", mutate: func(b *Bookmark) { b.URL = "http://geo.example.com/x" }, wantErr: ErrBookmarkURL},
		{name: "NoScheme", mutate: func(b *Bookmark) { b.URL = "geo.example.com/x" }, wantErr: ErrBookmarkURL},
		{name: "IntervalTooShort", mutate: func(b *Bookmark) { b.RefreshInterval = 5 * time.Second }, wantErr: ErrBookmarkInterval},
		{name: "IntervalTooLong", mutate: func(b *Bookmark) { b.RefreshInterval = 2 * time.Hour }, wantErr: ErrBookmarkInterval},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := valid
			tc.mutate(&b)

			err := b.Validate()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
