package api

// SubmitWorkRequest is the multipart form for POST /works (§6 Ingest
// API): the raw file plus ingest metadata. The file itself arrives as
// a multipart.FileHeader and is read separately in the handler; this
// struct is bound via c.ShouldBind for the accompanying form fields.
// UserID is accepted per §6's request body but not persisted: request
// authentication/ownership is an external collaborator's concern (§1),
// out of this core's scope.
type SubmitWorkRequest struct {
	Filename    string `form:"filename"`
	UserID      string `form:"user_id"`
	StylePreset string `form:"style_preset"`
	CustomStyle string `form:"custom_style"`
}
