package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/bytonbyte/internal/server/services"
)

// multipartOverhead covers form boundaries and the albumId field on top of
// the file itself.
const multipartOverhead = 1 << 20

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.gallery.ListAlbums(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var in services.CreateAlbumInput
	if !decodeJSON(w, r, &in) {
		return
	}
	album, err := s.gallery.CreateAlbum(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, album)
}

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	imgs, err := s.gallery.ListImages(r.Context(), r.URL.Query().Get("albumId"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, imgs)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Size > s.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if int64(len(data)) > s.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	img, err := s.gallery.Upload(r.Context(), services.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		AlbumID:     r.FormValue("albumId"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, img)
}
