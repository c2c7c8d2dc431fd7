package plugin

import "sort"

// Идентификаторы методов сортировки xbmcplugin
const (
	SortMethodNone                    = 0
	SortMethodLabel                   = 1
	SortMethodLabelIgnoreThe          = 2
	SortMethodDate                    = 3
	SortMethodSize                    = 4
	SortMethodFile                    = 5
	SortMethodDriveType               = 6
	SortMethodTrackNum                = 7
	SortMethodDuration                = 8
	SortMethodTitle                   = 9
	SortMethodTitleIgnoreThe          = 10
	SortMethodArtist                  = 11
	SortMethodArtistIgnoreThe         = 13
	SortMethodAlbum                   = 14
	SortMethodAlbumIgnoreThe          = 15
	SortMethodGenre                   = 16
	SortMethodCountry                 = 17
	SortMethodVideoYear               = 18
	SortMethodVideoRating             = 19
	SortMethodVideoUserRating         = 20
	SortMethodDateAdded               = 21
	SortMethodProgramCount            = 22
	SortMethodPlaylistOrder           = 23
	SortMethodEpisode                 = 24
	SortMethodVideoTitle              = 25
	SortMethodVideoSortTitle          = 26
	SortMethodVideoSortTitleIgnoreThe = 27
	SortMethodProductionCode          = 28
	SortMethodSongRating              = 29
	SortMethodSongUserRating          = 30
	SortMethodMPAARating              = 31
	SortMethodVideoRuntime            = 32
	SortMethodStudio                  = 33
	SortMethodStudioIgnoreThe         = 34
	SortMethodFullPath                = 35
	SortMethodLabelIgnoreFolders      = 36
	SortMethodLastPlayed              = 37
	SortMethodPlayCount               = 38
	SortMethodListeners               = 39
	SortMethodUnsorted                = 40
	SortMethodChannel                 = 41
	SortMethodBitrate                 = 43
	SortMethodDateTaken               = 44
)

var sortMethodNames = map[int]string{
	SortMethodNone:                    "SORT_METHOD_NONE",
	SortMethodLabel:                   "SORT_METHOD_LABEL",
	SortMethodLabelIgnoreThe:          "SORT_METHOD_LABEL_IGNORE_THE",
	SortMethodDate:                    "SORT_METHOD_DATE",
	SortMethodSize:                    "SORT_METHOD_SIZE",
	SortMethodFile:                    "SORT_METHOD_FILE",
	SortMethodDriveType:               "SORT_METHOD_DRIVE_TYPE",
	SortMethodTrackNum:                "SORT_METHOD_TRACKNUM",
	SortMethodDuration:                "SORT_METHOD_DURATION",
	SortMethodTitle:                   "SORT_METHOD_TITLE",
	SortMethodTitleIgnoreThe:          "SORT_METHOD_TITLE_IGNORE_THE",
	SortMethodArtist:                  "SORT_METHOD_ARTIST",
	SortMethodArtistIgnoreThe:         "SORT_METHOD_ARTIST_IGNORE_THE",
	SortMethodAlbum:                   "SORT_METHOD_ALBUM",
	SortMethodAlbumIgnoreThe:          "SORT_METHOD_ALBUM_IGNORE_THE",
	SortMethodGenre:                   "SORT_METHOD_GENRE",
	SortMethodCountry:                 "SORT_METHOD_COUNTRY",
	SortMethodVideoYear:               "SORT_METHOD_VIDEO_YEAR",
	SortMethodVideoRating:             "SORT_METHOD_VIDEO_RATING",
	SortMethodVideoUserRating:         "SORT_METHOD_VIDEO_USER_RATING",
	SortMethodDateAdded:               "SORT_METHOD_DATEADDED",
	SortMethodProgramCount:            "SORT_METHOD_PROGRAM_COUNT",
	SortMethodPlaylistOrder:           "SORT_METHOD_PLAYLIST_ORDER",
	SortMethodEpisode:                 "SORT_METHOD_EPISODE",
	SortMethodVideoTitle:              "SORT_METHOD_VIDEO_TITLE",
	SortMethodVideoSortTitle:          "SORT_METHOD_VIDEO_SORT_TITLE",
	SortMethodVideoSortTitleIgnoreThe: "SORT_METHOD_VIDEO_SORT_TITLE_IGNORE_THE",
	SortMethodProductionCode:          "SORT_METHOD_PRODUCTIONCODE",
	SortMethodSongRating:              "SORT_METHOD_SONG_RATING",
	SortMethodSongUserRating:          "SORT_METHOD_SONG_USER_RATING",
	SortMethodMPAARating:              "SORT_METHOD_MPAA_RATING",
	SortMethodVideoRuntime:            "SORT_METHOD_VIDEO_RUNTIME",
	SortMethodStudio:                  "SORT_METHOD_STUDIO",
	SortMethodStudioIgnoreThe:         "SORT_METHOD_STUDIO_IGNORE_THE",
	SortMethodFullPath:                "SORT_METHOD_FULLPATH",
	SortMethodLabelIgnoreFolders:      "SORT_METHOD_LABEL_IGNORE_FOLDERS",
	SortMethodLastPlayed:              "SORT_METHOD_LASTPLAYED",
	SortMethodPlayCount:               "SORT_METHOD_PLAYCOUNT",
	SortMethodListeners:               "SORT_METHOD_LISTENERS",
	SortMethodUnsorted:                "SORT_METHOD_UNSORTED",
	SortMethodChannel:                 "SORT_METHOD_CHANNEL",
	SortMethodBitrate:                 "SORT_METHOD_BITRATE",
	SortMethodDateTaken:               "SORT_METHOD_DATE_TAKEN",
}

// SortMethodName имя метода сортировки
func SortMethodName(id int) (string, bool) {
	name, ok := sortMethodNames[id]
	return name, ok
}

// SortMethods все известные методы сортировки: имя -> идентификатор
func SortMethods() map[string]int {
	out := make(map[string]int, len(sortMethodNames))
	for id, name := range sortMethodNames {
		out[name] = id
	}
	return out
}

// SortMethodIDs отсортированные идентификаторы
func SortMethodIDs() []int {
	ids := make([]int, 0, len(sortMethodNames))
	for id := range sortMethodNames {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
