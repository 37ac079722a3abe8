package session

// Storage keys.
const (
	KeyToken          = "jwt_token"
	KeyEmail          = "user_email"
	KeyUsername       = "user_username"
	KeyName           = "user_name"
	KeyUserID         = "user_id"
	KeyMemberSince    = "member_since"
	KeyLastLogin      = "last_login"
	KeyLastSearch     = "last_search"
	KeyBio            = "user_bio"
	KeyAvatar         = "profile_picture"
	KeyHistory        = "search_history"
	KeyTheme          = "app_theme"
	KeyRegion         = "app_region"
	KeyRegionPref     = "region_preference"
	KeyLastComparison = "last_comparison"

	preservedPrefix = "search_"
)

var authKeys = []string{
	KeyToken, KeyEmail, KeyUsername, KeyName, KeyUserID,
	KeyMemberSince, KeyLastLogin, KeyLastSearch,
}

func preserved(key string) bool {
	switch key {
	case KeyTheme, KeyRegion, KeyRegionPref:
		return true
	}
	return len(key) >= len(preservedPrefix) && key[:len(preservedPrefix)] == preservedPrefix
}
