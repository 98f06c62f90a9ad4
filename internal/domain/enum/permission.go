package enum

// Permission names checked by the HTTP layer.
const (
	PermSOView         = "so:view"
	PermSOCreate       = "so:create"
	PermSOConfirm      = "so:confirm"
	PermIVCreate       = "iv:create"
	PermIVView         = "iv:view"
	PermPOView         = "po:view"
	PermPOCreate       = "po:create"
	PermPOReceive      = "po:receive"
	PermStockView      = "stock:view"
	PermStockReceive   = "stock:receive"
	PermStockAdjust    = "stock:adjust"
	PermProductView    = "product:view"
	PermProductManage  = "product:manage"
	PermCustomerManage = "customer:manage"
	PermDashView       = "dash:view"
	PermReportView     = "report:view"
	PermUserView       = "user:view"
	PermUserManage     = "user:manage"
)

// AllPermissions lists every permission, in seeding order.
var AllPermissions = []string{
	PermSOView, PermSOCreate, PermSOConfirm,
	PermIVCreate, PermIVView,
	PermPOView, PermPOCreate, PermPOReceive,
	PermStockView, PermStockReceive, PermStockAdjust,
	PermProductView, PermProductManage, PermCustomerManage,
	PermDashView, PermReportView,
	PermUserView, PermUserManage,
}

// DefaultPermissions is granted to users that have no role assigned.
var DefaultPermissions = []string{PermSOView, PermSOCreate, PermDashView, PermUserView, PermStockReceive}

// Seeded role names.
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleViewer = "viewer"
)

// RolePermissions is the permission set each seeded role starts with.
var RolePermissions = map[string][]string{
	RoleAdmin: AllPermissions,
	RoleStaff: append(append([]string{}, DefaultPermissions...),
		PermSOConfirm, PermIVCreate, PermIVView, PermPOView, PermPOCreate, PermPOReceive,
		PermStockView, PermProductView, PermReportView),
	RoleViewer: {PermSOView, PermIVView, PermPOView, PermStockView, PermProductView, PermDashView, PermReportView, PermUserView},
}
