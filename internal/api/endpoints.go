package api

// Endpoints of the automationexercise REST API, relative to the API base URL.
const (
	EndpointProductsList  = "productsList"
	EndpointBrandsList    = "brandsList"
	EndpointSearchProduct = "searchProduct"
	EndpointVerifyLogin   = "verifyLogin"
	EndpointCreateAccount = "createAccount"
	EndpointDeleteAccount = "deleteAccount"
	EndpointUpdateAccount = "updateAccount"
	EndpointGetUserDetail = "getUserDetailByEmail"
)
