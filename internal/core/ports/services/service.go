package services

// ServiceContainer bundles all service facades for route registration.
type ServiceContainer struct {
	Auth    AuthSvcFacade
	Payment PaymentSvcFacade
}
