package handlers

// AppHandlers bundles the constructed handlers for route registration.
type AppHandlers struct {
	AuthHandler   *AuthHandler
	ChatHandler   *ChatHandler
	UploadHandler *UploadHandler
	AdminHandler  *AdminHandler
}
