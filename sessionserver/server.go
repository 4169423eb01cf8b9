// This file is part of GopherPsych.
//
// GopherPsych is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherPsych is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherPsych.  If not, see <https://www.gnu.org/licenses/>.

// Package sessionserver implements the server side of the experiment server
// protocol spoken by resources.ServerTransport. It serves resources from a
// local directory and records everything clients upload in a sqlite
// database.
//
// The server exists so an experiment descriptor pointing at a serverURL can
// run against localhost, and so transport code can be tested without a
// deployed server.
package sessionserver

import (
	"fmt"
	"net/http"

	"github.com/jetsetilly/gopherpsych/resources"

	"github.com/gin-gonic/gin"
)

// Server answers experiment server requests. Create with NewServer.
type Server struct {
	files  resources.LocalTransport
	store  *Store
	router *gin.Engine
}

// NewServer is the preferred method of initialisation for the Server type.
// Resources are served from resourceDir; uploads are recorded in store.
func NewServer(resourceDir string, store *Store) *Server {
	gin.SetMode(gin.ReleaseMode)

	srv := &Server{
		files: resources.LocalTransport{Dir: resourceDir},
		store: store,
	}

	srv.router = gin.New()
	srv.router.Use(gin.Recovery())
	srv.router.POST("/session", srv.session)
	srv.router.GET("/resources/:name", srv.resource)

	return srv
}

// Handler returns the http.Handler for the server. Used directly by tests
// and wrapped by ListenAndServe.
func (srv *Server) Handler() http.Handler {
	return srv.router
}

// ListenAndServe blocks, answering requests on addr.
func (srv *Server) ListenAndServe(addr string) error {
	return srv.router.Run(addr)
}

// session answers the command endpoint. Protocol errors travel in the JSON
// reply's error field with a 200 status; the transport on the other end
// promotes them to Go errors.
func (srv *Server) session(c *gin.Context) {
	switch command := c.PostForm("command"); command {
	case resources.CommandListResources:
		names, err := srv.files.List()
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"resources": names})

	case resources.CommandSaveData:
		session := c.PostForm("session")
		dataType := c.PostForm("dataType")
		name := c.PostForm("name")

		switch dataType {
		case resources.UploadResult, resources.UploadLog:
			// recognised
		default:
			c.JSON(http.StatusOK, gin.H{"error": fmt.Sprintf("unknown dataType: %s", dataType)})
			return
		}

		if err := srv.store.AddUpload(session, dataType, name, c.PostForm("data")); err != nil {
			c.JSON(http.StatusOK, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"representation": fmt.Sprintf("%s/%s", session, name)})

	default:
		c.JSON(http.StatusOK, gin.H{"error": fmt.Sprintf("unknown command: %s", command)})
	}
}

// resource serves resource bytes.
func (srv *Server) resource(c *gin.Context) {
	b, err := srv.files.Fetch(c.Param("name"))
	if err != nil {
		c.String(http.StatusNotFound, "no such resource")
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", b)
}
