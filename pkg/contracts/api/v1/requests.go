// Package api contains API contract definitions for the serex export
// service. Version v1 represents the current stable API version.
package api

import (
	"serex/pkg/contracts/domain"
)

// Series API Requests

// SeriesRegisterRequest registers or replaces a named series snapshot.
type SeriesRegisterRequest struct {
	domain.SeriesPayload
}

// ExportRequest carries the per-format export options decoded from
// query parameters. Unknown parameters are ignored; recognized ones are
// validated eagerly by the option structs before data is touched.
type ExportRequest struct {
	Format    string `json:"format" query:"format" validate:"required,oneof=csv json xlsx"`
	Download  bool   `json:"download" query:"download"`
	Header    *bool  `json:"header,omitempty" query:"header"`
	Sep       string `json:"sep,omitempty" query:"sep"`
	Index     bool   `json:"index,omitempty" query:"index"`
	Layout    string `json:"layout,omitempty" query:"layout"`
	FileName  string `json:"fileName,omitempty" query:"fileName"`
	SheetName string `json:"sheetName,omitempty" query:"sheetName"`
}

// Plot API Requests

// PlotMountRequest binds a registered series to a chart mount.
type PlotMountRequest struct {
	MountID string `json:"mount_id" validate:"required,min=1,max=64"`
	Kind    string `json:"kind" validate:"omitempty,oneof=line bar"`
	Title   string `json:"title,omitempty"`
	Width   int    `json:"width,omitempty" validate:"omitempty,min=0,max=4096"`
	Height  int    `json:"height,omitempty" validate:"omitempty,min=0,max=4096"`
}
