package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

func pathID(r *http.Request, name string) int32 {
	v, _ := strconv.Atoi(mux.Vars(r)[name])
	return int32(v)
}

func pageParams(r *http.Request) (int32, int32) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return int32(page), int32(pageSize)
}
