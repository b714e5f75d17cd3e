package services

// ServiceContainer bundles the constructed services for wiring into the
// handler layer.
type ServiceContainer struct {
	AuthService   AuthService
	ChatService   ChatService
	UploadService UploadService
	AdminService  AdminService
}
