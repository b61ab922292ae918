// Package errors 定义业务错误码和错误处理
package errors

import (
	"fmt"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
// 平台面向安哥拉用户，错误消息统一使用葡萄牙语
var (
	ErrUnknown         = New(1000, "Erro desconhecido")
	ErrInvalidParams   = New(1001, "Parâmetros inválidos")
	ErrNotFound        = New(1002, "Recurso não encontrado")
	ErrAlreadyExists   = New(1003, "Recurso já existe")
	ErrDatabaseError   = New(1004, "Erro de base de dados")
	ErrCacheError      = New(1005, "Erro de cache")
	ErrInternalError   = New(1006, "Erro interno")
	ErrExternalService = New(1007, "Erro de serviço externo")
	ErrRateLimitExceed = New(1008, "Demasiados pedidos, tente mais tarde")
	ErrOperationFailed = New(1009, "Operação falhou")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, "Sessão não iniciada")
	ErrTokenExpired     = New(2001, "Sessão expirada")
	ErrTokenInvalid     = New(2002, "Token inválido")
	ErrTokenRefreshFail = New(2003, "Falha ao renovar o token")
	ErrPermissionDenied = New(2004, "Permissão negada")
	ErrAccountDisabled  = New(2005, "Conta desativada")
	ErrPasswordError    = New(2006, "Número de telefone ou senha incorretos")
	ErrSmsSendFail      = New(2007, "Falha no envio do SMS")
)

// 用户错误码 (3000-3999)
var (
	ErrUserNotFound = New(3000, "Usuário não encontrado")
	ErrUserExists   = New(3001, "Usuário já existe")
	ErrPhoneExists  = New(3002, "Número de telefone já registado")
	ErrPhoneInvalid = New(3003, "Número de telefone inválido")
)

// 等级错误码 (4000-4999)
var (
	ErrLevelNotFound = New(4000, "Nível não encontrado")
	ErrLevelDisabled = New(4001, "Nível não está ativo")
	ErrLevelInUse    = New(4002, "Nível em uso, não pode ser removido")
)

// 充值错误码 (5000-5999)
var (
	ErrDepositNotFound   = New(5000, "Depósito não encontrado")
	ErrDepositNotPending = New(5001, "Depósito já foi processado")
	ErrDepositAmountLow  = New(5002, "Valor do depósito abaixo do mínimo do nível")
	ErrBankAccountClosed = New(5003, "Coordenada bancária indisponível")
)

// 提现错误码 (6000-6999)
var (
	ErrWithdrawalNotFound      = New(6000, "Saque não encontrado")
	ErrWithdrawalNotPending    = New(6001, "Saque já foi processado")
	ErrBelowMinimumAmount      = New(6002, "Valor mínimo de saque é 1.500 Kz")
	ErrDuplicatePendingRequest = New(6003, "Já existe um saque pendente hoje")
	ErrOutsideAllowedWindow    = New(6004, "Saques apenas de segunda a sábado, das 09:00 às 18:00")
	ErrBankInfoMissing         = New(6005, "Defina o banco e o IBAN antes de sacar")
)

// 收益错误码 (7000-7999)
var (
	ErrNoActiveLevel  = New(7000, "Nenhum nível ativo, faça um depósito primeiro")
	ErrAlreadyClaimed = New(7001, "Ganho diário já resgatado hoje")
)

// 邀请错误码 (8000-8999)
var (
	ErrInviteCodeInvalid = New(8000, "Código de convite inválido")
	ErrSelfInvite        = New(8001, "Não pode convidar a si próprio")
)

// 账本错误码 (9000-9999)
var (
	ErrLedgerNotFound      = New(9000, "Conta de saldo não encontrada")
	ErrInsufficientBalance = New(9001, "Saldo insuficiente")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
