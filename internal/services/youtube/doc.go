// Package youtube resolves playlists in-process through the kkdai/youtube
// client, as an alternative to shelling out to yt-dlp, and holds the small
// URL helpers shared by the download side.
package youtube
