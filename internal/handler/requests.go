package handler

import (
	desktopSvc "webtop/internal/domain/services/desktop"
	"webtop/internal/httputil"
)

// Request bodies accept parent_id as a number, a string ("root" or an id)
// or null, which the service request types cannot express directly.

type moveBody struct {
	X        *int                    `json:"x"`
	Y        *int                    `json:"y"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

type placementBody struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

func (p placementBody) placement() desktopSvc.Placement {
	return desktopSvc.Placement{X: p.X, Y: p.Y}
}

type createFolderBody struct {
	placementBody
	Name     string                  `json:"name"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

type createLinkBody struct {
	placementBody
	Title    string                  `json:"title"`
	Link     string                  `json:"link"`
	Glyph    string                  `json:"icon_class"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

type createDocumentBody struct {
	placementBody
	Title    string                  `json:"title"`
	Content  string                  `json:"content"`
	ParentID httputil.OptionalString `json:"parent_id"`
}
