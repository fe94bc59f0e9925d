package auth

// Response and validation messages. Clients match on these strings, so
// they are part of the API contract.
const (
	MsgRegisterSuccess     = "Register success"
	MsgLoginSuccess        = "Login success"
	MsgLogoutSuccess       = "Logout success"
	MsgRefreshTokenSuccess = "Refresh token success"

	MsgEmailVerifySuccess        = "Email verify success"
	MsgEmailAlreadyVerified      = "Email already verified before"
	MsgResendVerifyEmailSuccess  = "Resend verify email success"
	MsgCheckEmailToResetPassword = "Check email to reset password"

	MsgVerifyForgotPasswordSuccess = "Verify forgot password success"
	MsgResetPasswordSuccess        = "Reset password success"
	MsgForgotPasswordTokenUsed     = "Forgot password token has been verified"
	MsgInvalidForgotPasswordToken  = "Invalid forgot password token"
	MsgInvalidEmailVerifyToken     = "Invalid email verify token"
	MsgEmailOrPasswordIncorrect    = "Email or password is incorrect"
	MsgAccessTokenRequired         = "Access token is required"
	MsgRefreshTokenRequired        = "Refresh token is required"
	MsgRefreshTokenUsedOrNotExist  = "Refresh token has been used or does not exist"
	MsgEmailVerifyTokenRequired    = "Email verify token is required"
	MsgForgotPasswordTokenRequired = "Forgot password token is required"

	MsgUserNotFound          = "User not found"
	MsgUserNotVerified       = "User not verified or banned"
	MsgGetMeSuccess          = "Get my profile success"
	MsgUpdateMeSuccess       = "Update my profile success"
	MsgGetUserProfileSuccess = "Get user profile success"

	MsgNameRequired = "Name is required"
	MsgNameString   = "Name must be a string"
	MsgNameLength   = "Name length must be from 1 to 100"

	MsgEmailRequired      = "Email is required"
	MsgEmailInvalid       = "Email is invalid"
	MsgEmailAlreadyExists = "Email already exists"

	MsgDateOfBirthRequired = "Date of birth is required"
	MsgDateOfBirthString   = "Date of birth must be a string"
	MsgDateOfBirthISO8601  = "Date of birth must be ISO8601"

	MsgPasswordRequired = "Password is required"
	MsgPasswordString   = "Password must be a string"
	MsgPasswordLength   = "Password length must be from 6 to 50"
	MsgPasswordStrong   = "Password must be 6-50 characters long and contain at least 1 lowercase letter, 1 uppercase letter, 1 number, and 1 symbol"

	MsgConfirmPasswordRequired = "Confirm password is required"
	MsgConfirmPasswordString   = "Confirm password must be a string"
	MsgConfirmPasswordLength   = "Confirm password length must be from 6 to 50"
	MsgConfirmPasswordStrong   = "Confirm password must be 6-50 characters long and contain at least 1 lowercase letter, 1 uppercase letter, 1 number, and 1 symbol"
	MsgConfirmPasswordMismatch = "Confirm password must be the same as password"

	MsgBioString = "Bio must be a string"
	MsgBioLength = "Bio length must be from 1 to 200"

	MsgLocationString = "Location must be a string"
	MsgLocationLength = "Location length must be from 1 to 200"

	MsgWebsiteInvalid = "Website is invalid"
	MsgWebsiteLength  = "Website length must be from 1 to 100"

	MsgUsernameString  = "Username must be a string"
	MsgUsernameInvalid = "Username must be 4-15 characters long and contain only letters, numbers, underscores and not only numbers"
	MsgUsernameExisted = "Username existed"

	MsgImageURLInvalid = "Image URL is invalid"
	MsgImageURLLength  = "Image URL length must be from 1 to 400"

	MsgCannotChangeEmail               = "Not allowed to change email"
	MsgCannotChangePassword            = "Cannot change password by this method"
	MsgCannotChangeEmailVerifyToken    = "Not allowed to change email verify token"
	MsgCannotChangeForgotPasswordToken = "Not allowed to change forgot password token"
	MsgCannotChangeVerifyStatus        = "Not allowed to change verify status"
)
