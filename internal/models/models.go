// Package models contains the request/response DTOs of the HTTP API
// and the content/share-link entities shared between the service and
// storage layers.
package models

// SignupRequest is the body of POST /api/v1/signup.
// Username is optional and not validated.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,min=3,max=100"`
	Password string `json:"password" validate:"required,min=5,max=100"`
	Username string `json:"username"`
}

// SigninRequest is the body of POST /api/v1/signin.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninResponse carries the bearer token issued on a successful sign-in.
type SigninResponse struct {
	Token string `json:"token"`
}

// AddContentRequest is the body of POST /api/v1/content.
type AddContentRequest struct {
	Link  string `json:"link"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// DeleteContentRequest is the body of DELETE /api/v1/content.
type DeleteContentRequest struct {
	ContentID string `json:"contentId"`
}

// ShareRequest is the body of POST /api/v1/brain/share.
// Share is decoded untyped: the endpoint only requires the value
// to be truthy, its content is not otherwise used.
type ShareRequest struct {
	Share any `json:"share"`
}

// ShareResponse carries the generated share hash.
type ShareResponse struct {
	Link string `json:"link"`
}

// MessageResponse is the generic single-message payload used by most endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// InvalidFormatResponse is returned when the signup payload fails validation.
type InvalidFormatResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Content is a stored bookmark/note entry owned by a single user.
// It is the storage-layer shape; API responses use ContentItem and
// SharedContentItem instead.
type Content struct {
	ID     string   `json:"id"`
	Type   string   `json:"type"`
	Title  string   `json:"title"`
	Link   string   `json:"link"`
	Tags   []string `json:"tags"`
	UserID string   `json:"userId"`
}

// ContentOwner is the resolved owner reference embedded in content listings.
type ContentOwner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ContentItem is one entry of the authenticated content listing,
// with the owner reference resolved to include the username.
type ContentItem struct {
	ID    string       `json:"id"`
	Type  string       `json:"type"`
	Title string       `json:"title"`
	Link  string       `json:"link"`
	Tags  []string     `json:"tags"`
	Owner ContentOwner `json:"userId"`
}

// ContentListResponse is the body of GET /api/v1/content.
type ContentListResponse struct {
	Content []ContentItem `json:"content"`
}

// SharedContentItem is one entry of the public shared-brain view.
type SharedContentItem struct {
	ID    string   `json:"id"`
	Type  string   `json:"type"`
	Link  string   `json:"link"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// SharedBrainResponse is the body of GET /api/v1/brain/{shareLink}.
type SharedBrainResponse struct {
	Username string              `json:"username"`
	Content  []SharedContentItem `json:"content"`
}

// Storage backend kinds selectable via configuration.
const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)
