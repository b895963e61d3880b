package types

type Role string

const (
	RoleKYCAdmin      Role = "ROLE_KYC_ADMIN"
	RolePlatformAdmin Role = "ROLE_PLATFORM_ADMIN"
	RolePlatformUser  Role = "ROLE_PLATFORM_USER"
)
