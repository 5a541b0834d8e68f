package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - 数据不足类错误：INSUFFICIENT_DATA, UNKNOWN_USER, NO_NEIGHBORS, NO_PREDICTIONS
//   - 内容索引类错误：EMPTY_CATALOG, ARTIFACTS_MISSING
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "NO_NEIGHBORS", "NOT_FOUND"）
	Message string // 错误消息
	Module  string // 模块名称（如 "cf", "content", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误

	// 协同过滤错误代码
	ErrorCodeInsufficientData = "INSUFFICIENT_DATA" // 过滤后评分数据为空，矩阵无法构建
	ErrorCodeUnknownUser      = "UNKNOWN_USER"      // 用户不在矩阵中（评分历史不足）
	ErrorCodeNoNeighbors      = "NO_NEIGHBORS"      // 找不到正相似度邻居
	ErrorCodeNoPredictions    = "NO_PREDICTIONS"    // 所有未评分电影都没有可用邻居
	ErrorCodeAuthRequired     = "AUTH_REQUIRED"     // 协同过滤需要已识别的用户

	// 内容推荐错误代码
	ErrorCodeEmptyCatalog     = "EMPTY_CATALOG"     // 片库为空，无法构建向量索引
	ErrorCodeArtifactsMissing = "ARTIFACTS_MISSING" // 索引产物缺失且禁止重建
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleCatalog = "catalog" // 片库模块
	ModuleCF      = "cf"      // 协同过滤模块
	ModuleContent = "content" // 内容推荐模块
	ModuleFeature = "feature" // 特征模块
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// IsInsufficientData 检查错误是否为 INSUFFICIENT_DATA
func IsInsufficientData(err error) bool { return hasCode(err, ErrorCodeInsufficientData) }

// IsUnknownUser 检查错误是否为 UNKNOWN_USER
func IsUnknownUser(err error) bool { return hasCode(err, ErrorCodeUnknownUser) }

// IsNoNeighbors 检查错误是否为 NO_NEIGHBORS
func IsNoNeighbors(err error) bool { return hasCode(err, ErrorCodeNoNeighbors) }

// IsNoPredictions 检查错误是否为 NO_PREDICTIONS
func IsNoPredictions(err error) bool { return hasCode(err, ErrorCodeNoPredictions) }

// IsAuthRequired 检查错误是否为 AUTH_REQUIRED
func IsAuthRequired(err error) bool { return hasCode(err, ErrorCodeAuthRequired) }

// IsEmptyCatalog 检查错误是否为 EMPTY_CATALOG
func IsEmptyCatalog(err error) bool { return hasCode(err, ErrorCodeEmptyCatalog) }

// IsArtifactsMissing 检查错误是否为 ARTIFACTS_MISSING
func IsArtifactsMissing(err error) bool { return hasCode(err, ErrorCodeArtifactsMissing) }
