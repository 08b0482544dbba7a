package server

import "net/http"

func userResource(id string) resource {
	return resource{name: "User", id: id}
}

// --- User Handlers ---

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List()
	if err != nil {
		s.handleError(w, r, err, userResource(""))
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"count": len(users), "data": users})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeObject(w, r)
	if err != nil {
		writeBadBody(w, err)
		return
	}

	u, err := s.users.Create(raw)
	if err != nil {
		s.handleError(w, r, err, userResource(""))
		return
	}
	writeSuccess(w, http.StatusCreated, "User created successfully", envelope{"data": u})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	u, err := s.users.Get(id)
	if err != nil {
		s.handleError(w, r, err, userResource(id))
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"data": u})
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	raw, err := decodeObject(w, r)
	if err != nil {
		writeBadBody(w, err)
		return
	}

	u, err := s.users.Update(id, raw)
	if err != nil {
		s.handleError(w, r, err, userResource(id))
		return
	}
	writeSuccess(w, http.StatusOK, "User updated successfully", envelope{"data": u})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.users.Delete(id); err != nil {
		s.handleError(w, r, err, userResource(id))
		return
	}
	writeSuccess(w, http.StatusOK, "User deleted successfully", envelope{"data": envelope{}})
}

func (s *Server) countUsers(w http.ResponseWriter, r *http.Request) {
	n, err := s.users.Count()
	if err != nil {
		s.handleError(w, r, err, userResource(""))
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"count": n})
}
