package server

import (
	"net/http"
	"path/filepath"
)

// StaticHandler 提供静态客户端页面；/room/{id} 共用同一个入口页
func StaticHandler(dir string) http.Handler {
	index := filepath.Join(dir, "index.html")
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(dir)))
	mux.HandleFunc("/room/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, index)
	})
	return mux
}
