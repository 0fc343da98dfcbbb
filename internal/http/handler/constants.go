package handler

const (
	jsonKeyError   = "error"
	jsonKeyMessage = "message"

	paramImageUUID = "uuid"
	paramHeight    = "height"
	paramExpiry    = "expiry"

	queryParamToken  = "token"
	queryParamLimit  = "limit"
	queryParamOffset = "offset"

	formFieldFile = "file"

	contentTypeJPEG = "image/jpeg"

	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgInvalidCredentials      = "invalid credentials"
	msgUsernameAlreadyExists   = "account with this username already exists"
	msgPasswordProcessFail     = "failed to process password"
	msgCreateAccountFail       = "failed to create account"
	msgGenerateTokenFail       = "failed to generate token"
	msgInvalidImageUUID        = "invalid image identifier"
	msgInvalidHeight           = "height must be a positive integer"
	msgInvalidExpiry           = "expiry must be a positive number of seconds"
	msgFileRequired            = "file is required"
	msgFileTooLarge            = "file exceeds the maximum upload size"
	msgUnsupportedImageFormat  = "uploaded file is not a valid JPEG or PNG image"
	msgOriginalNotAuthorized   = "you are not authorized to access the original image"
	msgNotOwner                = "you are not the owner of this image"
	msgLinkInvalid             = "link is invalid or has expired"
	msgResolveAccountFail      = "failed to resolve account"
	msgStoreImageFail          = "failed to store image"
	msgListImagesFail          = "failed to list images"
	msgUpdateImageFail         = "failed to update image"
	msgDeleteImageFail         = "failed to delete image"
	msgReadImageFail           = "failed to read image data"
)
