package server

func (s *Server) initRoutes() error {
	home, err := s.HomeHandler()
	if err != nil {
		return err
	}
	signIn, err := s.SignInGetHandler()
	if err != nil {
		return err
	}
	signInPost, err := s.SignInPostHandler()
	if err != nil {
		return err
	}
	register, err := s.RegisterGetHandler()
	if err != nil {
		return err
	}
	registerPost, err := s.RegisterPostHandler()
	if err != nil {
		return err
	}

	s.RegisterRouteHandler("GET "+RouteHome, ChainMiddleware(home, s.HTMLMiddleWare()...))

	s.RegisterRouteHandler("GET "+RouteSignIn, ChainMiddleware(signIn, s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteSignIn, ChainMiddleware(signInPost, s.HTMLMiddleWare()...))

	s.RegisterRouteHandler("GET "+RouteRegister, ChainMiddleware(register, s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteRegister, ChainMiddleware(registerPost, s.HTMLMiddleWare()...))

	s.RegisterRouteHandler("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	return nil
}
