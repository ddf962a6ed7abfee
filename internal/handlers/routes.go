package handlers

import "net/http"

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Accounts   AccountStore
	Sessions   SessionManager
	Videos     VideoStore
	Comments   CommentStore
	Tweets     TweetStore
	Playlists  PlaylistManager
	Toggler    EdgeToggler
	Aggregator ChannelAggregator
	Stats      StatsProvider
	Catalog    Catalog
	Media      MediaStorage
	Limiter    RateLimiter
	DB         Pinger
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{DB: deps.DB}
	auth := AuthHandler{Accounts: deps.Accounts, Sessions: deps.Sessions, Limiter: deps.Limiter}
	accounts := AccountHandler{Accounts: deps.Accounts, Aggregator: deps.Aggregator}
	videos := VideoHandler{Videos: deps.Videos, Accounts: deps.Accounts, Catalog: deps.Catalog}
	comments := CommentHandler{Comments: deps.Comments, Videos: deps.Videos, Catalog: deps.Catalog}
	tweets := TweetHandler{Tweets: deps.Tweets, Catalog: deps.Catalog}
	playlists := PlaylistHandler{Playlists: deps.Playlists, Catalog: deps.Catalog}
	subscriptions := SubscriptionHandler{Toggler: deps.Toggler, Aggregator: deps.Aggregator}
	likes := LikeHandler{Toggler: deps.Toggler, Catalog: deps.Catalog}
	dashboard := DashboardHandler{StatsProvider: deps.Stats, Catalog: deps.Catalog}
	uploads := UploadHandler{Storage: deps.Media}

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /api/v1/uploads", uploads.Upload)

	mux.HandleFunc("POST /api/v1/auth/signup", auth.SignUp)
	mux.HandleFunc("POST /api/v1/auth/login", auth.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", auth.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", auth.Logout)

	mux.HandleFunc("GET /api/v1/accounts/me", accounts.Me)
	mux.HandleFunc("PATCH /api/v1/accounts/me", accounts.UpdateMe)
	mux.HandleFunc("GET /api/v1/accounts/me/history", accounts.WatchHistory)
	mux.HandleFunc("GET /api/v1/accounts/{id}/tweets", tweets.ListForOwner)
	mux.HandleFunc("GET /api/v1/accounts/{id}/playlists", playlists.ListForOwner)

	mux.HandleFunc("GET /api/v1/channels/{username}", accounts.ChannelProfile)
	mux.HandleFunc("GET /api/v1/channels/{channelId}/subscribers", subscriptions.Subscribers)

	mux.HandleFunc("GET /api/v1/videos", videos.List)
	mux.HandleFunc("POST /api/v1/videos", videos.Publish)
	mux.HandleFunc("GET /api/v1/videos/{id}", videos.Get)
	mux.HandleFunc("PATCH /api/v1/videos/{id}", videos.Update)
	mux.HandleFunc("DELETE /api/v1/videos/{id}", videos.Delete)
	mux.HandleFunc("GET /api/v1/videos/{id}/comments", comments.ListForVideo)
	mux.HandleFunc("POST /api/v1/videos/{id}/comments", comments.Create)

	mux.HandleFunc("PATCH /api/v1/comments/{id}", comments.Update)
	mux.HandleFunc("DELETE /api/v1/comments/{id}", comments.Delete)

	mux.HandleFunc("POST /api/v1/tweets", tweets.Create)
	mux.HandleFunc("PATCH /api/v1/tweets/{id}", tweets.Update)
	mux.HandleFunc("DELETE /api/v1/tweets/{id}", tweets.Delete)

	mux.HandleFunc("POST /api/v1/playlists", playlists.Create)
	mux.HandleFunc("GET /api/v1/playlists/{id}", playlists.Get)
	mux.HandleFunc("PATCH /api/v1/playlists/{id}", playlists.Update)
	mux.HandleFunc("DELETE /api/v1/playlists/{id}", playlists.Delete)
	mux.HandleFunc("POST /api/v1/playlists/{id}/videos/{videoId}", playlists.AddVideo)
	mux.HandleFunc("DELETE /api/v1/playlists/{id}/videos/{videoId}", playlists.RemoveVideo)

	mux.HandleFunc("GET /api/v1/subscriptions", subscriptions.SubscribedChannels)
	mux.HandleFunc("POST /api/v1/subscriptions/{channelId}/toggle", subscriptions.Toggle)

	mux.HandleFunc("POST /api/v1/likes/{kind}/{id}/toggle", likes.Toggle)
	mux.HandleFunc("GET /api/v1/likes/videos", likes.LikedVideos)

	mux.HandleFunc("GET /api/v1/dashboard/stats", dashboard.Stats)
	mux.HandleFunc("GET /api/v1/dashboard/videos", dashboard.Videos)
}
