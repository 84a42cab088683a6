package httpapi

import (
	"net/http"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/httpjson"
)

func schemaRef(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func jsonContent(schema map[string]any) map[string]any {
	return map[string]any{"application/json": map[string]any{"schema": schema}}
}

func jsonBody(name string) map[string]any {
	return map[string]any{"required": true, "content": jsonContent(schemaRef(name))}
}

func arrayOf(name string) map[string]any {
	return map[string]any{"type": "array", "items": schemaRef(name)}
}

// handleOpenAPI renvoie une description OpenAPI de l'API v1.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	ok := func(schema map[string]any) map[string]any {
		return map[string]any{"description": "OK", "content": jsonContent(schema)}
	}
	noContent := map[string]any{"description": "No Content"}
	jsonErr := map[string]any{"description": "Error", "content": jsonContent(schemaRef("Error"))}
	// Erreurs possibles de tout appel qui touche l'API amont.
	upstream := func(responses map[string]any) map[string]any {
		responses["502"] = jsonErr
		responses["503"] = jsonErr
		return responses
	}
	viewID := []any{map[string]any{"name": "id", "in": "path", "required": true, "schema": map[string]any{"type": "string"}}}

	str := map[string]any{"type": "string"}
	boolean := map[string]any{"type": "boolean"}
	dateTime := map[string]any{"type": "string", "format": "date-time"}

	doc := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "YouTube Channel Viewer API",
			"version": "v1",
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Error": map[string]any{
					"type":       "object",
					"properties": map[string]any{"error": str},
					"required":   []any{"error"},
				},
				"Video": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":           str,
						"title":        str,
						"publishedAt":  dateTime,
						"thumbnailUrl": str,
						"duration":     map[string]any{"type": "string", "description": "ISO-8601 (PT4M13S)"},
					},
					"required": []any{"id", "title"},
				},
				"View": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":          str,
						"input":       str,
						"channelId":   str,
						"state":       map[string]any{"type": "string", "enum": []any{"idle", "loading", "ready", "failed"}},
						"error":       str,
						"videos":      arrayOf("Video"),
						"nextCursor":  str,
						"hasMore":     boolean,
						"loadingMore": boolean,
						"refreshing":  boolean,
						"total":       map[string]any{"type": "integer"},
						"watched":     map[string]any{"type": "array", "items": str},
						"showWatched": boolean,
						"selected":    schemaRef("Video"),
						"createdAt":   dateTime,
					},
				},
				"PageResult": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"applied": boolean,
						"view":    schemaRef("View"),
					},
				},
				"Selection": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"video":    schemaRef("Video"),
						"advanced": boolean,
					},
				},
				"Channel": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":          str,
						"title":       str,
						"description": str,
						"thumbnails":  map[string]any{"type": "object", "additionalProperties": str},
					},
				},
				"CommentPage": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"threads":    map[string]any{"type": "array", "items": map[string]any{"type": "object", "additionalProperties": true}},
						"nextCursor": str,
					},
				},
				"WatchRecord": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"videoId":   str,
						"watchedAt": str,
						"title":     str,
					},
					"required": []any{"videoId", "watchedAt"},
				},
				"HistoryEntry": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"url":       str,
						"timestamp": map[string]any{"type": "integer", "description": "ms Unix"},
					},
				},
				"Preferences": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"autoHideWatched": boolean,
						"showWatched":     boolean,
						"gridMode":        boolean,
					},
					"additionalProperties": false,
				},
				"OpenViewRequest": map[string]any{
					"type":       "object",
					"properties": map[string]any{"input": map[string]any{"type": "string", "example": "https://www.youtube.com/@GoogleDevelopers"}},
					"required":   []any{"input"},
				},
				"SelectRequest": map[string]any{
					"type":       "object",
					"properties": map[string]any{"videoId": str},
					"required":   []any{"videoId"},
				},
				"AddWatchedRequest": map[string]any{
					"type":       "object",
					"properties": map[string]any{"videoId": str, "title": str},
					"required":   []any{"videoId"},
				},
				"TermRequest": map[string]any{
					"type":       "object",
					"properties": map[string]any{"term": str},
					"required":   []any{"term"},
				},
			},
		},
		"paths": map[string]any{
			"/api/v1/health":       map[string]any{"get": map[string]any{"responses": map[string]any{"200": map[string]any{"description": "OK"}}}},
			"/api/v1/version":      map[string]any{"get": map[string]any{"responses": map[string]any{"200": map[string]any{"description": "OK"}}}},
			"/api/v1/openapi.json": map[string]any{"get": map[string]any{"responses": map[string]any{"200": map[string]any{"description": "OK"}}}},
			"/api/v1/events":       map[string]any{"get": map[string]any{"responses": map[string]any{"200": map[string]any{"description": "SSE"}}}},
			"/api/v1/views": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": ok(arrayOf("View"))}},
				"post": map[string]any{
					"requestBody": jsonBody("OpenViewRequest"),
					"responses":   upstream(map[string]any{"201": ok(schemaRef("View")), "400": jsonErr, "404": jsonErr}),
				},
			},
			"/api/v1/views/{id}": map[string]any{
				"parameters": viewID,
				"get":        map[string]any{"responses": map[string]any{"200": ok(schemaRef("View")), "404": jsonErr}},
				"delete":     map[string]any{"responses": map[string]any{"204": noContent, "404": jsonErr}},
			},
			"/api/v1/views/{id}/more": map[string]any{
				"parameters": viewID,
				"post":       map[string]any{"responses": upstream(map[string]any{"200": ok(schemaRef("PageResult")), "404": jsonErr})},
			},
			"/api/v1/views/{id}/refresh": map[string]any{
				"parameters": viewID,
				"post":       map[string]any{"responses": upstream(map[string]any{"200": ok(schemaRef("PageResult")), "404": jsonErr})},
			},
			"/api/v1/views/{id}/select": map[string]any{
				"parameters": viewID,
				"post": map[string]any{
					"requestBody": jsonBody("SelectRequest"),
					"responses":   map[string]any{"200": ok(schemaRef("Selection")), "400": jsonErr, "404": jsonErr},
				},
			},
			"/api/v1/views/{id}/finished": map[string]any{
				"parameters": viewID,
				"post":       map[string]any{"responses": map[string]any{"200": ok(schemaRef("Selection")), "404": jsonErr}},
			},
			"/api/v1/views/{id}/selection": map[string]any{
				"parameters": viewID,
				"get":        map[string]any{"responses": map[string]any{"200": ok(schemaRef("Selection")), "404": jsonErr}},
				"delete":     map[string]any{"responses": map[string]any{"204": noContent, "404": jsonErr}},
			},
			"/api/v1/channels/{ref}": map[string]any{
				"get": map[string]any{"responses": upstream(map[string]any{"200": ok(schemaRef("Channel")), "400": jsonErr, "404": jsonErr})},
			},
			"/api/v1/videos/{id}/comments": map[string]any{
				"get": map[string]any{"responses": upstream(map[string]any{"200": ok(schemaRef("CommentPage"))})},
			},
			"/api/v1/watched": map[string]any{
				"get":    map[string]any{"responses": map[string]any{"200": ok(arrayOf("WatchRecord"))}},
				"post":   map[string]any{"requestBody": jsonBody("AddWatchedRequest"), "responses": map[string]any{"200": ok(schemaRef("WatchRecord")), "400": jsonErr}},
				"delete": map[string]any{"responses": map[string]any{"204": noContent}},
			},
			"/api/v1/watched/refresh": map[string]any{
				"post": map[string]any{"responses": map[string]any{"200": ok(arrayOf("WatchRecord"))}},
			},
			"/api/v1/watched/{id}": map[string]any{
				"get":    map[string]any{"responses": map[string]any{"200": ok(schemaRef("WatchRecord")), "404": jsonErr}},
				"delete": map[string]any{"responses": map[string]any{"204": noContent}},
			},
			"/api/v1/blacklist": map[string]any{
				"get":  map[string]any{"responses": map[string]any{"200": ok(map[string]any{"type": "array", "items": str})}},
				"post": map[string]any{"requestBody": jsonBody("TermRequest"), "responses": map[string]any{"200": ok(map[string]any{"type": "array", "items": str}), "400": jsonErr}},
				"delete": map[string]any{
					"parameters": []any{map[string]any{"name": "term", "in": "query", "required": true, "schema": str}},
					"responses":  map[string]any{"200": ok(map[string]any{"type": "array", "items": str}), "400": jsonErr},
				},
			},
			"/api/v1/blacklist/{term}": map[string]any{
				"delete": map[string]any{"responses": map[string]any{"200": ok(map[string]any{"type": "array", "items": str})}},
			},
			"/api/v1/history": map[string]any{
				"get":    map[string]any{"responses": map[string]any{"200": ok(arrayOf("HistoryEntry"))}},
				"delete": map[string]any{"responses": map[string]any{"204": noContent}},
			},
			"/api/v1/preferences": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": ok(schemaRef("Preferences"))}},
				"put": map[string]any{"requestBody": jsonBody("Preferences"), "responses": map[string]any{"200": ok(schemaRef("Preferences")), "400": jsonErr}},
			},
		},
	}

	httpjson.Write(w, http.StatusOK, doc)
}
