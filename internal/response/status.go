// Package response holds the result envelope returned by the service layer and
// the closed set of statuses it can carry.
package response

import "net/http"

// Status identifies an outcome. The set is closed: values only come from the
// constants below.
type Status int

const (
	Success                  Status = 1000
	TokenVerificationSuccess Status = 1001

	TokenEmpty             Status = 2000
	SignupEmailEmpty       Status = 2001
	SignupEmailLength      Status = 2002
	SignupEmailErrorType   Status = 2003
	SignupPasswordEmpty    Status = 2004
	SignupPasswordLength   Status = 2005
	SignupNicknameEmpty    Status = 2006
	SignupNicknameLength   Status = 2007
	SigninEmailEmpty       Status = 2008
	SigninEmailLength      Status = 2009
	SigninEmailErrorType   Status = 2010
	SigninPasswordEmpty    Status = 2011
	UserUserIDEmpty        Status = 2012
	UserUserIDNotExist     Status = 2013
	UserIDNotMatch         Status = 2015
	UserNicknameEmpty      Status = 2016
	TokenVerificationError Status = 3000

	SignupRedundantEmail    Status = 3001
	SigninEmailWrong        Status = 3003
	SigninPasswordWrong     Status = 3004
	SigninInactiveAccount   Status = 3005
	SigninWithdrawalAccount Status = 3006

	DBError     Status = 4000
	ServerError Status = 4001
	QueryError  Status = 4002
)

type statusInfo struct {
	name       string
	message    string
	httpStatus int
}

var statuses = map[Status]statusInfo{
	Success:                  {"SUCCESS", "success", http.StatusOK},
	TokenVerificationSuccess: {"TOKEN_VERIFICATION_SUCCESS", "JWT token verified", http.StatusOK},

	TokenEmpty:             {"TOKEN_EMPTY", "JWT token is required", http.StatusUnauthorized},
	SignupEmailEmpty:       {"SIGNUP_EMAIL_EMPTY", "email is required", http.StatusBadRequest},
	SignupEmailLength:      {"SIGNUP_EMAIL_LENGTH", "email must be at most 30 characters", http.StatusBadRequest},
	SignupEmailErrorType:   {"SIGNUP_EMAIL_ERROR_TYPE", "email format is invalid", http.StatusBadRequest},
	SignupPasswordEmpty:    {"SIGNUP_PASSWORD_EMPTY", "password is required", http.StatusBadRequest},
	SignupPasswordLength:   {"SIGNUP_PASSWORD_LENGTH", "password must be 6 to 20 characters", http.StatusBadRequest},
	SignupNicknameEmpty:    {"SIGNUP_NICKNAME_EMPTY", "nickname is required", http.StatusBadRequest},
	SignupNicknameLength:   {"SIGNUP_NICKNAME_LENGTH", "nickname must be at most 20 characters", http.StatusBadRequest},
	SigninEmailEmpty:       {"SIGNIN_EMAIL_EMPTY", "email is required", http.StatusBadRequest},
	SigninEmailLength:      {"SIGNIN_EMAIL_LENGTH", "email must be at most 30 characters", http.StatusBadRequest},
	SigninEmailErrorType:   {"SIGNIN_EMAIL_ERROR_TYPE", "email format is invalid", http.StatusBadRequest},
	SigninPasswordEmpty:    {"SIGNIN_PASSWORD_EMPTY", "password is required", http.StatusBadRequest},
	UserUserIDEmpty:        {"USER_USERID_EMPTY", "userId is required", http.StatusBadRequest},
	UserUserIDNotExist:     {"USER_USERID_NOT_EXIST", "user does not exist", http.StatusNotFound},
	UserIDNotMatch:         {"USER_ID_NOT_MATCH", "userId does not match the token", http.StatusForbidden},
	UserNicknameEmpty:      {"USER_NICKNAME_EMPTY", "nickname is required", http.StatusBadRequest},
	TokenVerificationError: {"TOKEN_VERIFICATION_FAILURE", "JWT token verification failed", http.StatusUnauthorized},

	SignupRedundantEmail:    {"SIGNUP_REDUNDANT_EMAIL", "email is already registered", http.StatusConflict},
	SigninEmailWrong:        {"SIGNIN_EMAIL_WRONG", "email is wrong", http.StatusUnauthorized},
	SigninPasswordWrong:     {"SIGNIN_PASSWORD_WRONG", "password is wrong", http.StatusUnauthorized},
	SigninInactiveAccount:   {"SIGNIN_INACTIVE_ACCOUNT", "account is inactive, contact the administrator", http.StatusUnauthorized},
	SigninWithdrawalAccount: {"SIGNIN_WITHDRAWAL_ACCOUNT", "account has been withdrawn, contact the administrator", http.StatusUnauthorized},

	DBError:     {"DB_ERROR", "database error", http.StatusInternalServerError},
	ServerError: {"SERVER_ERROR", "server error", http.StatusInternalServerError},
	QueryError:  {"QUERY_ERROR", "query error", http.StatusInternalServerError},
}

// Code returns the numeric code sent to clients.
func (s Status) Code() int { return int(s) }

// String returns the symbolic name, e.g. "SIGNIN_EMAIL_WRONG".
func (s Status) String() string {
	if info, ok := statuses[s]; ok {
		return info.name
	}
	return "UNKNOWN"
}

// Message returns the human readable message of the status.
func (s Status) Message() string {
	return statuses[s].message
}

// IsSuccess reports whether the status is one of the 1xxx success codes.
func (s Status) IsSuccess() bool {
	return s >= 1000 && s < 2000
}

// HTTPStatus returns the HTTP status code a handler should answer with.
func (s Status) HTTPStatus() int {
	if info, ok := statuses[s]; ok {
		return info.httpStatus
	}
	return http.StatusInternalServerError
}
