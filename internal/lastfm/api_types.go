// internal/lastfm/api_types.go
//
// Wire types for the Last.fm 2.0 API. Responses arrive as XML inside an
// <lfm status="ok|failed"> envelope; these structs carry both xml tags for
// decoding and json tags so handlers can pass them through to clients.

package lastfm

import "fmt"

// APIError is the <error> payload of a failed envelope. It satisfies error
// so callers can surface it directly or pick it out with errors.As.
type APIError struct {
	Code    string `xml:"code,attr" json:"code"`
	Message string `xml:",chardata" json:"message"`
}

// errorDescriptions maps the documented API error codes to their meaning.
var errorDescriptions = map[string]string{
	"2":  "Invalid service - This service does not exist",
	"3":  "Invalid Method - No method with that name in this package",
	"4":  "Authentication Failed - You do not have permissions to access the service",
	"5":  "Invalid format - This service doesn't exist in that format",
	"6":  "Invalid parameters - Your request is missing a required parameter",
	"7":  "Invalid resource specified",
	"8":  "Operation failed - Something else went wrong",
	"9":  "Invalid session key - Please re-authenticate",
	"10": "Invalid API key - You must be granted a valid key by last.fm",
	"11": "Service Offline - This service is temporarily offline. Try again later.",
	"13": "Invalid method signature supplied",
	"14": "This token has not been authorized",
	"15": "This token has expired",
	"16": "There was a temporary error processing your request. Please try again",
	"26": "Suspended API key - Access for your account has been suspended, please contact Last.fm",
	"29": "Rate limit exceeded - Your IP has made too many requests in a short period",
}

func (e *APIError) Error() string {
	if d, ok := errorDescriptions[e.Code]; ok {
		return fmt.Sprintf("lastfm: %s: %s: %s", e.Code, d, e.Message)
	}
	return fmt.Sprintf("lastfm: unknown code %s: %s", e.Code, e.Message)
}

// Period is the time range accepted by the user.getTop* methods.
type Period string

const (
	PeriodOverall     Period = "overall"
	PeriodSevenDay    Period = "7day"
	PeriodOneMonth    Period = "1month"
	PeriodThreeMonth  Period = "3month"
	PeriodSixMonth    Period = "6month"
	PeriodTwelveMonth Period = "12month"
)

// Session is the payload of auth.getSession: a username plus the long-lived
// key that authorizes signed requests on that user's behalf.
type Session struct {
	Name       string `xml:"name" json:"name"`
	Key        string `xml:"key" json:"key"`
	Subscriber int    `xml:"subscriber" json:"subscriber"`
}

// User is the profile payload of user.getInfo.
type User struct {
	Name       string `xml:"name" json:"name"`
	RealName   string `xml:"realname" json:"realName,omitempty"`
	URL        string `xml:"url" json:"url"`
	Country    string `xml:"country" json:"country,omitempty"`
	Playcount  int64  `xml:"playcount" json:"playcount"`
	Subscriber int    `xml:"subscriber" json:"subscriber"`
}

// Image is one artwork rendition. Size is small/medium/large/extralarge/mega.
type Image struct {
	Size string `xml:"size,attr" json:"size"`
	URL  string `xml:",chardata" json:"url"`
}

// ShortArtist is the nested artist reference carried by albums and tracks.
type ShortArtist struct {
	Name string `xml:"name" json:"name"`
	MBID string `xml:"mbid" json:"mbid"`
	URL  string `xml:"url" json:"url"`
}

// Album is one entry of user.getTopAlbums.
type Album struct {
	Rank      int         `xml:"rank,attr" json:"rank"`
	Name      string      `xml:"name" json:"name"`
	Playcount int64       `xml:"playcount" json:"playcount"`
	MBID      string      `xml:"mbid" json:"mbid"`
	URL       string      `xml:"url" json:"url"`
	Artist    ShortArtist `xml:"artist" json:"artist"`
	Images    []Image     `xml:"image" json:"images"`
}

// Artist is one entry of user.getTopArtists.
type Artist struct {
	Rank       int     `xml:"rank,attr" json:"rank"`
	Name       string  `xml:"name" json:"name"`
	Playcount  int64   `xml:"playcount" json:"playcount"`
	MBID       string  `xml:"mbid" json:"mbid"`
	URL        string  `xml:"url" json:"url"`
	Streamable bool    `xml:"streamable" json:"streamable"`
	Images     []Image `xml:"image" json:"images"`
}

// Track is one entry of user.getTopTracks.
type Track struct {
	Rank       int         `xml:"rank,attr" json:"rank"`
	Name       string      `xml:"name" json:"name"`
	Playcount  int64       `xml:"playcount" json:"playcount"`
	MBID       string      `xml:"mbid" json:"mbid"`
	URL        string      `xml:"url" json:"url"`
	Streamable bool        `xml:"streamable" json:"streamable"`
	Artist     ShortArtist `xml:"artist" json:"artist"`
	Images     []Image     `xml:"image" json:"images"`
}

// TopAlbums is the user.getTopAlbums payload.
type TopAlbums struct {
	User   string  `xml:"user,attr" json:"user"`
	Albums []Album `xml:"album" json:"albums"`
}

// TopArtists is the user.getTopArtists payload.
type TopArtists struct {
	User    string   `xml:"user,attr" json:"user"`
	Artists []Artist `xml:"artist" json:"artists"`
}

// TopTracks is the user.getTopTracks payload.
type TopTracks struct {
	User   string  `xml:"user,attr" json:"user"`
	Tracks []Track `xml:"track" json:"tracks"`
}
