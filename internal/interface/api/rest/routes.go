package rest

const (
	// api
	RouteApi = "/api"

	// auth
	RouteAuth       = RouteApi + "/auth"
	RouteSignup     = RouteAuth + "/signup"
	RouteSignin     = RouteAuth + "/signin"
	RouteCheckLogin = RouteAuth + "/check-login"
	RouteLogout     = RouteAuth + "/logout"
	RouteAuthUsers  = RouteAuth + "/users"

	// files
	RouteFiles     = RouteApi + "/files"
	RouteUpload    = RouteFiles + "/upload"
	RouteDashboard = RouteFiles + "/dashboard"
	RouteFile      = RouteFiles + "/:id"
	RouteFileDel   = RouteFile + "/delete"

	// share; on RouteShareTarget GET the :id segment is a share token
	RouteShare       = RouteApi + "/share"
	RouteShareTarget = RouteShare + "/:id"
	RouteShareUsers  = RouteShareTarget + "/share-users"
	RouteSharedUsers = RouteShareTarget + "/users"
	RouteShareLink   = RouteShareTarget + "/share-link"

	// ops
	RouteHealth  = RouteApi + "/healthz"
	RouteMetrics = RouteApi + "/metrics"
)
