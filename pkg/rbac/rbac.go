package rbac

// 权限常量
const (
	PermissionReadTask     = "task:read"
	PermissionCreateTask   = "task:create"
	PermissionUpdateTask   = "task:update"
	PermissionDeleteTask   = "task:delete"
	PermissionProgressTask = "task:progress"
	PermissionCommentTask  = "task:comment"

	PermissionReadReport   = "report:read"
	PermissionCreateReport = "report:create"
	PermissionUpdateReport = "report:update"
	PermissionDeleteReport = "report:delete"

	PermissionReadNotification = "notification:read"
	PermissionReadDocument     = "document:read"
	PermissionReadChart        = "chart:read"

	// 敏感操作权限
	PermissionExportData = "data:export"
	PermissionImportData = "data:import"
)

// 角色常量
const (
	RoleAdmin   = "admin"
	RolePartner = "partner"
)

// 角色权限映射
var rolePermissions = map[string][]string{
	RolePartner: {
		PermissionReadTask,
		PermissionCreateTask,
		PermissionProgressTask,
		PermissionCommentTask,
		PermissionReadReport,
		PermissionCreateReport,
		PermissionUpdateReport,
		PermissionReadNotification,
		PermissionReadDocument,
		PermissionReadChart,
	},
	RoleAdmin: {
		PermissionReadTask,
		PermissionCreateTask,
		PermissionUpdateTask,
		PermissionDeleteTask,
		PermissionProgressTask,
		PermissionCommentTask,
		PermissionReadReport,
		PermissionCreateReport,
		PermissionUpdateReport,
		PermissionDeleteReport,
		PermissionReadNotification,
		PermissionReadDocument,
		PermissionReadChart,
		PermissionExportData,
		PermissionImportData,
	},
}

// HasPermission 检查角色是否有指定权限
func HasPermission(role, permission string) bool {
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission 检查角色是否有指定权限（返回错误而不是布尔值，便于处理）
func CheckPermission(role, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

// PermissionDeniedError 表示权限不足的错误
type PermissionDeniedError struct {
	Role       string
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return "insufficient permissions"
}

// CheckOwnership 非管理员只能操作本组织的记录
func CheckOwnership(role, userOrganization, resourceOrganization string) error {
	if role == RoleAdmin {
		return nil
	}
	if userOrganization != resourceOrganization {
		return &OrganizationMismatchError{
			UserOrganization:     userOrganization,
			ResourceOrganization: resourceOrganization,
		}
	}
	return nil
}

// OrganizationMismatchError 表示记录不属于当前用户所在组织
type OrganizationMismatchError struct {
	UserOrganization     string
	ResourceOrganization string
}

func (e *OrganizationMismatchError) Error() string {
	return "record belongs to another organization"
}
