package ntfs

import "strings"

// mimeByExtension is a small static extension->MIME table, grounded on
// original_source/'s fff/ntfs/file.py, which derives File.mime from the
// $FILE_NAME extension. Falls back to application/octet-stream.
var mimeByExtension = map[string]string{
	".txt":  "text/plain",
	".log":  "text/plain",
	".csv":  "text/csv",
	".htm":  "text/html",
	".html": "text/html",
	".xml":  "text/xml",
	".json": "application/json",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".exe":  "application/x-msdownload",
	".dll":  "application/x-msdownload",
	".sys":  "application/x-msdownload",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
}

const defaultMimeType = "application/octet-stream"

// mimeTypeForName derives a MIME type from a filename's extension.
func mimeTypeForName(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return defaultMimeType
	}
	ext := strings.ToLower(name[idx:])
	if mt, ok := mimeByExtension[ext]; ok {
		return mt
	}
	return defaultMimeType
}
